package cache

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/asseta-api/internal/domain/entity"
)

// encodeList serializa una lista como arreglo JSON de documentos.
func encodeList(docs []entity.Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, d := range docs {
		raw, err := entity.EncodeJSON(d)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(raw)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func decodeList(data []byte) ([]entity.Document, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	out := make([]entity.Document, 0, len(raws))
	for _, r := range raws {
		doc, err := entity.DecodeJSON(r)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}
