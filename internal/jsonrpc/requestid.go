package jsonrpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// RequestID represents a JSON-RPC ID that can be either a string or a number.
// The original wire form is preserved so responses echo the ID exactly.
type RequestID struct {
	str   string
	num   json.Number
	isNum bool
}

// NewRequestID creates a RequestID from a string or integer value. Any other
// type yields a nil ID.
func NewRequestID(value any) *RequestID {
	switch v := value.(type) {
	case string:
		return &RequestID{str: v}
	case int:
		return &RequestID{num: json.Number(strconv.Itoa(v)), isNum: true}
	case int64:
		return &RequestID{num: json.Number(strconv.FormatInt(v, 10)), isNum: true}
	default:
		return nil
	}
}

// String returns the string representation of the ID.
func (id *RequestID) String() string {
	if id == nil {
		return ""
	}
	if id.isNum {
		return id.num.String()
	}
	return id.str
}

// IsNil reports whether the ID is absent.
func (id *RequestID) IsNil() bool {
	return id == nil
}

// MarshalJSON implements json.Marshaler. A nil ID encodes as null.
func (id *RequestID) MarshalJSON() ([]byte, error) {
	if id == nil {
		return []byte("null"), nil
	}
	if id.isNum {
		return []byte(id.num), nil
	}
	return json.Marshal(id.str)
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *RequestID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("JSON-RPC ID must be a string or number, got nothing")
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid JSON-RPC string ID: %w", err)
		}
		*id = RequestID{str: s}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("JSON-RPC ID must be a string or number, got: %s", string(data))
	}
	*id = RequestID{num: n, isNum: true}
	return nil
}
