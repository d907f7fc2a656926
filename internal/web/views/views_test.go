package views

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/catalog"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/core"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/porter"
)

func TestIndex(t *testing.T) {
	var buf bytes.Buffer
	err := Index([]Group{
		{Name: "People", Entities: []catalog.Info{{Key: "candidates", Label: "Candidates <all>"}}},
		{Name: "Empty"},
	}).Render(context.Background(), &buf)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "<h2>People</h2>")
	assert.Contains(t, html, `action="/api/import/candidates"`)
	assert.Contains(t, html, "Candidates &lt;all&gt;")
	assert.NotContains(t, html, "Empty")
}

func TestImportResult(t *testing.T) {
	res := &porter.ImportResult{
		Processed: 1,
		Skipped:   1,
		Errors:    []string{"Row 4: Name is a required field"},
		Failures:  []porter.Failure{{Line: 4, Message: "Row 4: Name is a required field"}},
	}
	run := &core.ImportRun{ID: "abc", Entity: "departments", FileName: "d.csv", Result: res}

	var buf bytes.Buffer
	require.NoError(t, ImportResult(run, core.UserMessage{}).Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, "Import of departments")
	assert.Contains(t, html, "1 row(s) imported, 1 skipped")
	assert.Contains(t, html, "/api/import/abc/errors")
	assert.Contains(t, html, "<li>Row 4: Name is a required field</li>")
}

func TestImportResult_Fatal(t *testing.T) {
	res := &porter.ImportResult{Err: errors.New("boom")}
	run := &core.ImportRun{ID: "x", Entity: "subjects", DryRun: true, Result: res}

	var buf bytes.Buffer
	msg := core.UserMessage{Message: "The file has no header row", Code: "IMP003"}
	require.NoError(t, ImportResult(run, msg).Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, "Validation of subjects")
	assert.Contains(t, html, "Code: IMP003")
}
