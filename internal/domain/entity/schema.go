package entity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/asseta-api/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldKind tipo lógico de un campo del esquema.
type FieldKind int

const (
	KindString FieldKind = iota
	KindInt
	KindDecimal
	KindDate
	KindBool
)

// Campos de auditoría que el esquema mantiene por su cuenta.
const (
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
	FieldDeletedAt = "deletedAt" // entradas de la papelera
)

// Field describe un campo de un documento.
type Field struct {
	Name     string
	Kind     FieldKind
	Required bool
	Unique   bool // unicidad a nivel de colección (verificada por el caso de uso)
	Secret   bool // se guarda como hash y nunca se proyecta en respuestas
	Default  any
}

// Schema define los campos válidos de una colección (modo estricto: claves desconocidas se descartan).
type Schema struct {
	Collection  string // nombre de la colección y segmento de ruta, ej. "vendors"
	DisplayName string // nombre singular para notificaciones, ej. "Vendor"
	Fields      []Field
}

// NewSchema construye un esquema derivando el nombre visible del nombre de la colección.
func NewSchema(collection string, fields ...Field) Schema {
	return Schema{
		Collection:  collection,
		DisplayName: DisplayName(collection),
		Fields:      fields,
	}
}

// DisplayName convierte "vendors" en "Vendor" y "support" en "Support".
func DisplayName(collection string) string {
	singular := collection
	if strings.HasSuffix(singular, "s") && len(singular) > 1 {
		singular = strings.TrimSuffix(singular, "s")
	}
	return cases.Title(language.English).String(strings.ReplaceAll(singular, "-", " "))
}

// Field busca un campo por nombre.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// UniqueFields devuelve los campos marcados como únicos.
func (s Schema) UniqueFields() []Field {
	var out []Field
	for _, f := range s.Fields {
		if f.Unique {
			out = append(out, f)
		}
	}
	return out
}

// SecretFields devuelve los campos marcados como secretos.
func (s Schema) SecretFields() []Field {
	var out []Field
	for _, f := range s.Fields {
		if f.Secret {
			out = append(out, f)
		}
	}
	return out
}

// Build valida un documento parcial para creación: aplica defaults, convierte tipos y
// exige los campos requeridos. Devuelve *domain.ValidationError si algo falla.
func (s Schema) Build(input map[string]any, now time.Time) (Document, error) {
	doc := Document{}
	fields := map[string]string{}
	for _, f := range s.Fields {
		raw, present := input[f.Name]
		if !present || raw == nil {
			if f.Default != nil {
				doc[f.Name] = f.Default
			}
			if f.Required {
				fields[f.Name] = "requerido"
			}
			continue
		}
		v, err := coerce(f, raw)
		if err != nil {
			fields[f.Name] = err.Error()
			continue
		}
		if f.Required && isBlank(v) {
			fields[f.Name] = "requerido"
			continue
		}
		doc[f.Name] = v
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}
	doc[FieldCreatedAt] = now
	doc[FieldUpdatedAt] = now
	return doc, nil
}

// Patch valida un documento parcial para actualización: solo campos conocidos,
// sin defaults; un campo requerido no puede quedar vacío.
func (s Schema) Patch(input map[string]any, now time.Time) (Document, error) {
	doc := Document{}
	fields := map[string]string{}
	for _, f := range s.Fields {
		raw, present := input[f.Name]
		if !present {
			continue
		}
		if raw == nil {
			if f.Required {
				fields[f.Name] = "requerido"
			} else {
				doc[f.Name] = nil
			}
			continue
		}
		v, err := coerce(f, raw)
		if err != nil {
			fields[f.Name] = err.Error()
			continue
		}
		if f.Required && isBlank(v) {
			fields[f.Name] = "requerido"
			continue
		}
		doc[f.Name] = v
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}
	doc[FieldUpdatedAt] = now
	return doc, nil
}

// Project elimina los campos secretos antes de exponer un documento.
func (s Schema) Project(doc Document) Document {
	if doc == nil {
		return nil
	}
	out := doc.Clone()
	for _, f := range s.Fields {
		if f.Secret {
			delete(out, f.Name)
		}
	}
	return out
}

func isBlank(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func coerce(f Field, raw any) (any, error) {
	switch f.Kind {
	case KindString:
		switch v := raw.(type) {
		case string:
			return v, nil
		case float64, int, int64, bool:
			return fmt.Sprint(v), nil
		}
		return nil, fmt.Errorf("debe ser texto")
	case KindInt:
		switch v := raw.(type) {
		case float64:
			// Fuera de rango la conversión a int64 no está definida.
			if v != math.Trunc(v) || v >= math.MaxInt64 || v < math.MinInt64 {
				return nil, fmt.Errorf("debe ser entero")
			}
			return int64(v), nil
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("debe ser entero")
			}
			return n, nil
		}
		return nil, fmt.Errorf("debe ser entero")
	case KindDecimal:
		var d decimal.Decimal
		switch v := raw.(type) {
		case float64:
			d = decimal.NewFromFloat(v)
		case int:
			d = decimal.NewFromInt(int64(v))
		case int64:
			d = decimal.NewFromInt(v)
		case decimal.Decimal:
			d = v
		case string:
			parsed, err := decimal.NewFromString(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("debe ser numérico")
			}
			d = parsed
		default:
			return nil, fmt.Errorf("debe ser numérico")
		}
		return d, nil
	case KindDate:
		switch v := raw.(type) {
		case time.Time:
			return v.UTC(), nil
		case string:
			t, err := ParseTime(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("debe ser una fecha")
			}
			return t, nil
		}
		return nil, fmt.Errorf("debe ser una fecha")
	case KindBool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("debe ser booleano")
			}
			return b, nil
		}
		return nil, fmt.Errorf("debe ser booleano")
	}
	return raw, nil
}
