package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONB wraps a jsonb column for sqlx scanning. The case repository uses
// it to hydrate the affiliates list off a case row in one read, without a
// join table per role category.
type JSONB[T any] struct {
	Data T
}

func (p *JSONB[T]) Scan(src any) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("JSONB.Scan: expected []byte, got %T", src)
	}
	return json.Unmarshal(b, &p.Data)
}

// Value implements driver.Valuer so fixtures and future write paths can
// bind the wrapper directly.
func (p JSONB[T]) Value() (driver.Value, error) {
	return json.Marshal(p.Data)
}

func (p *JSONB[T]) GetValue() T {
	return p.Data
}
