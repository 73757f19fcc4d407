package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Record is one untyped entity as it appears in a collection document.
type Record map[string]any

// ID returns the record's id field, or "" when absent or not a string.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Encode converts a typed value into a Record via its JSON form, so field
// names follow the value's json tags.
func Encode(v any) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var rec Record
	if err := decodeJSON(data, &rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return rec, nil
}

// decodeDocument parses a collection document. Numbers stay json.Number so
// integers keep their exact digits when the document is written back.
func decodeDocument(data []byte) ([]Record, error) {
	var records []Record
	if err := decodeJSON(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after document")
	}
	return nil
}

// Decode converts a Record into T via its JSON form.
func Decode[T any](rec Record) (*T, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode record %q: %w", rec.ID(), err)
	}
	return &out, nil
}

func cloneRecords(records []Record) []Record {
	out := make([]Record, len(records), len(records)+1)
	copy(out, records)
	return out
}
