package entity

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// IDField es la clave del identificador generado por el almacén.
const IDField = "_id"

// Document es un registro schema-flexible tal como lo guarda el almacén de documentos.
// Los valores son tipos Go planos: string, bool, int64, float64,
// decimal.Decimal, time.Time, Document, []any.
type Document map[string]any

// ID devuelve el identificador del documento o "" si no tiene.
func (d Document) ID() string {
	if d == nil {
		return ""
	}
	switch v := d[IDField].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}

// Clone devuelve una copia profunda: los cambios sobre la copia nunca alcanzan al original.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

// Without devuelve una copia sin las claves indicadas.
func (d Document) Without(keys ...string) Document {
	out := d.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Document:
		return t.Clone()
	case map[string]any:
		return Document(t).Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

// Decode vuelca un documento en un struct con tags `mapstructure`.
// Acepta fechas como time.Time o como texto RFC3339 (adaptador Postgres).
func Decode(doc Document, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToTimeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		),
		WeaklyTypedInput: true,
		Result:           out,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(doc)); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

var timeType = reflect.TypeOf(time.Time{})

func stringToTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != timeType || from.Kind() != reflect.String {
		return data, nil
	}
	s := data.(string)
	if s == "" {
		return time.Time{}, nil
	}
	return ParseTime(s)
}

// ParseTime acepta los formatos de fecha que llegan por JSON o desde el almacén.
func ParseTime(s string) (time.Time, error) {
	layouts := []string{time.RFC3339Nano, TimeLayout, "2006-01-02T15:04", "2006-01-02"}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha inválida: %q", s)
}

// TimeLayout es el formato de ancho fijo usado cuando una fecha se guarda como texto.
// Ordenar lexicográficamente equivale a ordenar cronológicamente.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// FormatTime serializa en TimeLayout (UTC).
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
