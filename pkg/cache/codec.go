package cache

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"

	"github.com/datashield-ai/classify-engine/pkg/models"
)

// encodeResult serializes a result for storage. JSON is preferred: it is
// human-diffable and portable across languages sharing the backend. Values
// JSON cannot represent fall back to gob.
func encodeResult(r *models.Result) ([]byte, error) {
	data, err := json.Marshal(r)
	if err == nil {
		return data, nil
	}

	var buf bytes.Buffer
	if gobErr := gob.NewEncoder(&buf).Encode(r); gobErr != nil {
		return nil, fmt.Errorf("encode result: json: %v, gob: %w", err, gobErr)
	}
	return buf.Bytes(), nil
}

// decodeResult attempts JSON first and falls back to gob, so an entry is
// never lost to an ambiguous encoding choice.
func decodeResult(data []byte) (*models.Result, error) {
	var r models.Result
	if err := json.Unmarshal(data, &r); err == nil {
		return &r, nil
	}

	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &r, nil
}
