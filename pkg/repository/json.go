package repository

import (
	"encoding/json"
	"fmt"
)

// JSON decodes a json or jsonb column into V. A NULL column leaves V at its
// zero value, so aggregate subqueries that match no rows decode cleanly.
type JSON[T any] struct {
	V T
}

// Scan implements sql.Scanner.
func (j *JSON[T]) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		var zero T
		j.V = zero
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan json: unsupported source %T", src)
	}

	if err := json.Unmarshal(data, &j.V); err != nil {
		return fmt.Errorf("scan json: %w", err)
	}
	return nil
}
