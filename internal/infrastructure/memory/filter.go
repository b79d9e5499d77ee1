package memory

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/asseta-api/internal/domain/entity"
	"github.com/jhoicas/asseta-api/internal/domain/repository"
)

// Matches indica si doc cumple todas las condiciones de filter.
func Matches(doc entity.Document, filter repository.Filter) bool {
	for field, cond := range filter {
		v, present := doc[field]
		switch c := cond.(type) {
		case repository.LessThan:
			if !present {
				return false
			}
			cmp, ok := Compare(v, c.Value)
			if !ok || cmp >= 0 {
				return false
			}
		default:
			if !present {
				return false
			}
			cmp, ok := Compare(v, cond)
			if !ok || cmp != 0 {
				return false
			}
		}
	}
	return true
}

// Compare ordena dos valores escalares del mismo tipo lógico.
// ok es false si los tipos no son comparables.
func Compare(a, b any) (cmp int, ok bool) {
	if ta, isTime := asTime(a); isTime {
		tb, isTime := asTime(b)
		if !isTime {
			return 0, false
		}
		return ta.Compare(tb), true
	}
	if da, isNum := asDecimal(a); isNum {
		db, isNum := asDecimal(b)
		if !isNum {
			return 0, false
		}
		return da.Cmp(db), true
	}
	switch va := a.(type) {
	case string:
		vb, isStr := b.(string)
		if !isStr {
			return 0, false
		}
		return strings.Compare(va, vb), true
	case bool:
		vb, isBool := b.(bool)
		if !isBool {
			return 0, false
		}
		switch {
		case va == vb:
			return 0, true
		case !va:
			return -1, true
		}
		return 1, true
	case nil:
		if b == nil {
			return 0, true
		}
		return -1, true
	}
	return 0, false
}

func asTime(v any) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}

// asDecimal lleva cualquier número a decimal para comparar precios y enteros sin mezclar tipos.
func asDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	case decimal.Decimal:
		return n, true
	}
	return decimal.Decimal{}, false
}
