package porter

import "strings"

// Row is one data line keyed by field key. A nil value means the column was
// not bound or the line was too short to reach it.
type Row map[string]*string

// Get returns the value for key, or "" when it is absent.
func (r Row) Get(key string) string {
	if v := r[key]; v != nil {
		return *v
	}
	return ""
}

// Has reports whether key carries a value, even an empty one.
func (r Row) Has(key string) bool {
	return r[key] != nil
}

// buildRow reads every mapped key from record, trimming cell values.
func buildRow(record []string, cols ColumnMap, indexes map[string]int) Row {
	row := make(Row, cols.Len())
	for _, c := range cols.cols {
		pos, ok := indexes[c.Key]
		if !ok || pos < 0 || pos >= len(record) {
			row[c.Key] = nil
			continue
		}
		v := strings.TrimSpace(record[pos])
		row[c.Key] = &v
	}
	return row
}

// isBlankRecord reports whether every cell is empty after trimming.
func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
