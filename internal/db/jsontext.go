package db

import (
	"bytes"
	"encoding/json"
)

// Payloads that are stored as JSON text columns. Reads are lenient: a column
// that no longer parses yields the field's fallback instead of an error, so
// old or hand-edited rows never break a listing.

func IsNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// EncodeJSON turns an optional payload into a nullable column value.
// Absent and null both stay NULL.
func EncodeJSON(raw json.RawMessage) *string {
	if IsNull(raw) {
		return nil
	}
	s := string(bytes.TrimSpace(raw))
	return &s
}

// EncodeStrings serializes a name list; nil is stored as "[]".
func EncodeStrings(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeStrings reads a name list column, falling back to an empty list.
func DecodeStrings(col string) []string {
	var out []string
	if col == "" {
		return []string{}
	}
	if err := json.Unmarshal([]byte(col), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

// DecodeObject returns the stored object payload. NULL, a stored null or
// anything that is not a JSON object reads back as nil.
func DecodeObject(col *string) json.RawMessage {
	if col == nil || *col == "" {
		return nil
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(*col), &probe); err != nil || probe == nil {
		return nil
	}
	return json.RawMessage(*col)
}

// DecodeList returns the stored array payload. NULL stays nil, a column that
// does not hold an array reads back as [].
func DecodeList(col *string) json.RawMessage {
	if col == nil || *col == "" {
		return nil
	}
	var probe []json.RawMessage
	if err := json.Unmarshal([]byte(*col), &probe); err != nil {
		return json.RawMessage("[]")
	}
	if probe == nil {
		return nil
	}
	return json.RawMessage(*col)
}
