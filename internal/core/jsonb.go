// AngelaMos | 2026
// jsonb.go

package core

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONB stores V in a postgres jsonb column.
type JSONB[T any] struct {
	V T
}

func NewJSONB[T any](v T) JSONB[T] {
	return JSONB[T]{V: v}
}

func (j JSONB[T]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.V)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb: %w", err)
	}
	return string(b), nil
}

func (j *JSONB[T]) Scan(src any) error {
	var raw []byte

	switch v := src.(type) {
	case nil:
		var zero T
		j.V = zero
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan jsonb: unsupported type %T", src)
	}

	if err := json.Unmarshal(raw, &j.V); err != nil {
		return fmt.Errorf("scan jsonb: %w", err)
	}

	return nil
}
