package docstore

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

func encode(value interface{}) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

func decode(data []byte, dst interface{}) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// mergePatch overlays patch onto the top-level keys of the stored object.
// An empty current value is treated as an empty object.
func mergePatch(current []byte, patch map[string]interface{}) ([]byte, error) {
	doc := make(map[string]json.RawMessage)
	trimmed := bytes.TrimSpace(current)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if trimmed[0] != '{' {
			return nil, ErrNotObject
		}
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
	}

	for key, value := range patch {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode patch field %q: %w", key, err)
		}
		doc[key] = raw
	}

	return encode(doc)
}
