package mongodb

import (
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jhoicas/asseta-api/internal/domain/entity"
	"github.com/jhoicas/asseta-api/internal/domain/repository"
)

// BuildFilter traduce un repository.Filter a bson. ok es false cuando el filtro
// pide un _id que no es un ObjectID válido (ningún documento puede cumplirlo).
func BuildFilter(filter repository.Filter) (bson.M, bool) {
	out := bson.M{}
	for field, cond := range filter {
		if field == entity.IDField {
			s, isStr := cond.(string)
			if !isStr {
				return nil, false
			}
			oid, ok := objectID(s)
			if !ok {
				return nil, false
			}
			out[field] = oid
			continue
		}
		if lt, isLT := cond.(repository.LessThan); isLT {
			out[field] = bson.M{"$lt": toBSONValue(lt.Value)}
			continue
		}
		out[field] = toBSONValue(cond)
	}
	return out, true
}

// ToBSON prepara un documento para escribir: decimal.Decimal viaja como
// Decimal128, el resto lo codifica el driver tal cual.
func ToBSON(doc entity.Document) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = toBSONValue(v)
	}
	return out
}

func toBSONValue(v any) any {
	switch t := v.(type) {
	case decimal.Decimal:
		if d, err := primitive.ParseDecimal128(t.String()); err == nil {
			return d
		}
		return t.String()
	case entity.Document:
		return ToBSON(t)
	case map[string]any:
		return ToBSON(entity.Document(t))
	case []any:
		out := make(bson.A, len(t))
		for i, e := range t {
			out[i] = toBSONValue(e)
		}
		return out
	}
	return v
}

// Normalize convierte tipos BSON a tipos Go planos: ObjectID → hex,
// DateTime → time.Time UTC, int32 → int64, Decimal128 → decimal.Decimal,
// D/M/A → Document/[]any.
func Normalize(doc entity.Document) entity.Document {
	if doc == nil {
		return nil
	}
	out := make(entity.Document, len(doc))
	for k, v := range doc {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case int32:
		return int64(t)
	case primitive.Decimal128:
		if d, err := decimal.NewFromString(t.String()); err == nil {
			return d
		}
		return t.String()
	case bson.M:
		return Normalize(entity.Document(t))
	case map[string]any:
		return Normalize(entity.Document(t))
	case entity.Document:
		return Normalize(t)
	case bson.D:
		m := make(entity.Document, len(t))
		for _, e := range t {
			m[e.Key] = normalizeValue(e.Value)
		}
		return m
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	}
	return v
}
