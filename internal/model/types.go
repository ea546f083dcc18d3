package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// StringList is a jsonb-backed ordered list of item IDs. Duplicate entries
// are meaningful: each occurrence of an ID consumes one physical unit of
// that item, so the list must never be deduplicated.
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

// Count returns the number of occurrences of id in the list
func (l StringList) Count(id string) int {
	n := 0
	for _, v := range l {
		if v == id {
			n++
		}
	}
	return n
}

// PackageRequirement is one category entry of a package definition
type PackageRequirement struct {
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

// PackageConfig is the jsonb-backed list of category requirements
type PackageConfig []PackageRequirement

// Value implements driver.Valuer
func (c PackageConfig) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (c *PackageConfig) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return errors.New("unsupported type for PackageConfig")
	}
}

// TotalSlots returns the flattened number of required units. Entries with
// a non-positive quantity contribute no slots, mirroring how fulfillment
// skips them.
func (c PackageConfig) TotalSlots() int {
	total := 0
	for _, req := range c {
		if req.Quantity > 0 {
			total += req.Quantity
		}
	}
	return total
}

// Validate checks that every entry names a category and requires at least
// one unit
func (c PackageConfig) Validate() error {
	for _, req := range c {
		if req.Category == "" {
			return errors.New("package entry is missing a category")
		}
		if req.Quantity < 1 {
			return fmt.Errorf("package entry for %q must require at least one unit", req.Category)
		}
	}
	return nil
}
