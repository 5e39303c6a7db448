package mcpservice

import (
	"encoding/base64"
	"strconv"
)

// EncodeCursor wraps a non-negative offset into an opaque cursor. Negative
// offsets are clamped to zero.
func EncodeCursor(offset int) string {
	if offset < 0 {
		offset = 0
	}
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// DecodeCursor recovers the offset from a cursor produced by EncodeCursor.
// It never fails: a nil, empty, undecodable, non-numeric or negative cursor
// yields 0, which restarts listing from the beginning.
func DecodeCursor(cursor *string) int {
	if cursor == nil || *cursor == "" {
		return 0
	}
	b, err := base64.StdEncoding.DecodeString(*cursor)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(string(b))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
