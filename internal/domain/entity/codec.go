package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Los montos salen como número JSON, no como texto.
	decimal.MarshalJSONWithoutQuotes = true
}

// fieldKinds tipo de los campos fecha y decimal conocidos. DecodeJSON solo
// reconstruye time.Time y decimal.Decimal para estas claves.
var fieldKinds = buildFieldKinds()

func buildFieldKinds() map[string]FieldKind {
	kinds := map[string]FieldKind{
		FieldCreatedAt: KindDate,
		FieldUpdatedAt: KindDate,
		FieldDeletedAt: KindDate,
	}
	for _, s := range append(CRUDSchemas(), SupportSchema()) {
		for _, f := range s.Fields {
			if f.Kind == KindDate || f.Kind == KindDecimal {
				kinds[f.Name] = f.Kind
			}
		}
	}
	return kinds
}

// EncodeJSON serializa a JSON guardando las fechas como texto de ancho fijo,
// así el orden lexicográfico del texto coincide con el cronológico.
func EncodeJSON(doc Document) ([]byte, error) {
	b, err := json.Marshal(EncodeValue(map[string]any(doc)))
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return b, nil
}

// EncodeValue convierte fechas a texto TimeLayout, recursivamente.
func EncodeValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return FormatTime(t)
	case decimal.Decimal:
		return json.Number(t.String())
	case Document:
		return EncodeValue(map[string]any(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = EncodeValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = EncodeValue(e)
		}
		return out
	}
	return v
}

// DecodeJSON es la inversa de EncodeJSON: enteros como int64, y las claves
// de fieldKinds vuelven a time.Time o decimal.Decimal. El resto del texto
// queda como string aunque parezca una fecha.
func DecodeJSON(raw []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return decodeJSONValue("", m).(Document), nil
}

func decodeJSONValue(key string, v any) any {
	switch t := v.(type) {
	case json.Number:
		if fieldKinds[key] == KindDecimal {
			if d, err := decimal.NewFromString(t.String()); err == nil {
				return d
			}
		}
		if n, err := t.Int64(); err == nil {
			return n
		}
		f, _ := t.Float64()
		return f
	case string:
		switch fieldKinds[key] {
		case KindDate:
			if ts, err := time.Parse(TimeLayout, t); err == nil {
				return ts.UTC()
			}
		case KindDecimal:
			if d, err := decimal.NewFromString(t); err == nil {
				return d
			}
		}
		return t
	case map[string]any:
		out := make(Document, len(t))
		for k, e := range t {
			out[k] = decodeJSONValue(k, e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = decodeJSONValue(key, e)
		}
		return out
	}
	return v
}
