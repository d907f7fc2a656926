package porter

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
)

// BuildTable resolves records against cols. Row 0 holds the labels; each
// following row holds one record's cells in column order.
func BuildTable(records []any, cols ColumnMap) [][]string {
	table := make([][]string, 0, len(records)+1)
	table = append(table, cols.Labels())
	for _, rec := range records {
		raw := recordJSON(rec)
		row := make([]string, cols.Len())
		for i, c := range cols.cols {
			row[i] = cellFromJSON(raw, c.Key)
		}
		table = append(table, row)
	}
	return table
}

// CellValue resolves a dotted path against a single record.
func CellValue(record any, path string) string {
	return cellFromJSON(recordJSON(record), path)
}

// recordJSON returns the JSON form of rec. Records that cannot be encoded
// resolve every path to "".
func recordJSON(rec any) []byte {
	switch v := rec.(type) {
	case nil:
		return nil
	case json.RawMessage:
		return v
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return nil
	}
	return b
}

func cellFromJSON(raw []byte, path string) string {
	if len(raw) == 0 || path == "" {
		return ""
	}
	res := gjson.GetBytes(raw, path)
	if !res.Exists() {
		return ""
	}
	if res.IsObject() {
		res = res.Get("name")
		if !res.Exists() || res.IsObject() {
			return ""
		}
	}
	return stripTags(resultString(res))
}

func resultString(res gjson.Result) string {
	switch {
	case res.Type == gjson.Null:
		return ""
	case res.Type == gjson.True:
		return "Yes"
	case res.Type == gjson.False:
		return "No"
	case res.IsArray():
		items := res.Array()
		parts := make([]string, 0, len(items))
		for _, it := range items {
			if it.IsObject() {
				it = it.Get("name")
			}
			if s := resultString(it); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return res.String()
	}
}

// stripTags removes HTML markup and keeps the text content. The tokenizer
// decodes entities, so markup that was stored escaped is stripped again.
func stripTags(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	out := htmlText(s)
	if strings.Contains(out, "<") {
		out = htmlText(out)
	}
	return out
}

func htmlText(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
