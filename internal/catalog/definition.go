package catalog

import (
	"strings"

	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/porter"
)

func (d Definition) columnMap() (porter.ColumnMap, error) {
	cols := make([]porter.Column, len(d.Fields))
	for i, f := range d.Fields {
		cols[i] = porter.Column{Key: f.Key, Label: f.Label}
	}
	return porter.NewColumnMap(cols...)
}

// Columns is the import column map: field keys and their header labels.
func (d Definition) Columns() porter.ColumnMap {
	m, _ := d.columnMap() // checked by Register
	return m
}

// ExportColumns is the export column map. Keys are record paths; without
// an explicit Export list every field is exported under its database column.
func (d Definition) ExportColumns() porter.ColumnMap {
	cols := d.Export
	if len(cols) == 0 {
		cols = make([]porter.Column, len(d.Fields))
		for i, f := range d.Fields {
			cols[i] = porter.Column{Key: f.DBColumn(), Label: f.Label}
		}
	}
	m, err := porter.NewColumnMap(cols...)
	if err != nil {
		return d.Columns()
	}
	return m
}

// SelectColumns are the database columns read for an export.
func (d Definition) SelectColumns() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(c string) {
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	if len(d.Export) == 0 {
		for _, f := range d.Fields {
			add(f.DBColumn())
		}
		return out
	}
	for _, c := range d.Export {
		// nested paths read their top-level column
		add(strings.SplitN(c.Key, ".", 2)[0])
	}
	return out
}

func (d Definition) normalized(f Field, row porter.Row) string {
	v := CleanCell(row.Get(f.Key))
	if v != "" && f.Normalizer != nil {
		v = f.Normalizer(v)
	}
	return v
}

// Values converts a validated row into database column values. Unbound
// columns are left out so defaults apply; empty cells become NULL.
func (d Definition) Values(row porter.Row) map[string]any {
	values := make(map[string]any, len(d.Fields))
	for _, f := range d.Fields {
		if !row.Has(f.Key) {
			continue
		}
		v := d.normalized(f, row)
		switch f.Type {
		case FieldDate:
			values[f.DBColumn()] = ToPgDate(v)
		case FieldNumeric:
			values[f.DBColumn()] = ToPgNumeric(v)
		case FieldInt:
			values[f.DBColumn()] = ToPgInt8(v)
		case FieldBool:
			values[f.DBColumn()] = ToPgBool(v)
		case FieldEnum:
			values[f.DBColumn()] = ToPgText(canonicalEnum(f.EnumValues, v))
		default:
			values[f.DBColumn()] = ToPgText(v)
		}
	}
	return values
}

func canonicalEnum(allowed []string, v string) string {
	for _, a := range allowed {
		if strings.EqualFold(a, v) {
			return a
		}
	}
	return v
}
