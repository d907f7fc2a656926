package catalog

import (
	"errors"

	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/porter"
)

// ErrUnknownEntity is returned when a key is not in the registry.
var ErrUnknownEntity = errors.New("unknown entity")

// FieldType is the expected data type of an imported column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldDate
	FieldNumeric
	FieldInt
	FieldBool
)

// Field describes one importable column of an entity.
type Field struct {
	Key   string // Row key and default database column
	Label string // Header label in import files and templates

	// Column is the database column when it differs from Key.
	Column string

	Type       FieldType
	EnumValues []string // Valid values for FieldEnum, compared case-insensitively

	// Rules is a validator tag applied to the normalized value,
	// e.g. "required,email,max=255". Empty means no rules.
	Rules string

	// Normalizer runs before validation on non-empty values.
	Normalizer func(string) string
}

// DBColumn returns the database column for the field.
func (f Field) DBColumn() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Key
}

// Info contains display information about an entity.
type Info struct {
	Key   string `json:"key"`   // Unique identifier: "candidates"
	Group string `json:"group"` // Menu group: "Academics", "People"
	Label string `json:"label"` // Display name: "Candidates"
	Table string `json:"table"` // Database table
}

// Definition is everything the import and export pipelines need for an entity.
type Definition struct {
	Info   Info
	Fields []Field

	// Export lists export columns as (record path, label). When empty the
	// import fields are exported.
	Export []porter.Column

	// SearchColumns are matched with ILIKE by export search terms.
	SearchColumns []string
	OrderBy       string

	// ConflictColumn turns inserts into upserts on that column.
	ConflictColumn string
}
