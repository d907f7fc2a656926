// Package views renders the HTML pages of the web UI as templ components.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/catalog"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/core"
)

// Group is one section of the index page.
type Group struct {
	Name     string
	Entities []catalog.Info
}

func esc(s string) string { return templ.EscapeString(s) }

const styles = `body{font-family:system-ui,sans-serif;margin:2rem auto;max-width:60rem;color:#222}
table{border-collapse:collapse;width:100%}th,td{border:1px solid #ddd;padding:.4rem;text-align:left}
.alert{border:1px solid #c33;background:#fee;padding:1rem}.muted{color:#777}`

// layout wraps body in the page chrome.
func layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			"<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"><title>%s</title><style>%s</style></head><body>",
			esc(title), styles); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

// Index lists the entities with their template, import and export actions.
func Index(groups []Group) templ.Component {
	return layout("Import / Export", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<h1>Import / Export</h1>"); err != nil {
			return err
		}
		for _, g := range groups {
			if len(g.Entities) == 0 {
				continue
			}
			if _, err := fmt.Fprintf(w, "<h2>%s</h2><table><tbody>", esc(g.Name)); err != nil {
				return err
			}
			for _, e := range g.Entities {
				key := esc(e.Key)
				if _, err := fmt.Fprintf(w,
					`<tr><td>%s</td><td><a href="/api/template/%s">Template</a></td>`+
						`<td><form method="post" action="/api/import/%s" enctype="multipart/form-data">`+
						`<input type="file" name="file" accept=".csv,.txt" required> `+
						`<label><input type="checkbox" name="dry_run" value="1"> Validate only</label> `+
						`<button type="submit">Import</button></form></td>`+
						`<td><a href="/api/export/%s?format=pdf&amp;download=1">PDF</a> `+
						`<a href="/api/export/%s?format=xlsx&amp;download=1">Excel</a> `+
						`<a href="/api/export/%s?format=csv&amp;download=1">CSV</a></td></tr>`,
					esc(e.Label), key, key, key, key, key); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "</tbody></table>"); err != nil {
				return err
			}
		}
		return nil
	}))
}

// ImportResult shows the outcome of an import run. problem describes
// run.Result.Err and is ignored when the run did not abort.
func ImportResult(run *core.ImportRun, problem core.UserMessage) templ.Component {
	return layout("Import result", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		res := run.Result
		heading := "Import"
		if run.DryRun {
			heading = "Validation"
		}
		if _, err := fmt.Fprintf(w, "<h1>%s of %s</h1><p class=\"muted\">%s</p>",
			heading, esc(run.Entity), esc(run.FileName)); err != nil {
			return err
		}

		if res.Err != nil {
			if err := ErrorAlert(problem).Render(ctx, w); err != nil {
				return err
			}
		} else if _, err := fmt.Fprintf(w, "<p>%s</p>", esc(res.Summary())); err != nil {
			return err
		}

		if len(res.Failures) > 0 {
			if _, err := fmt.Fprintf(w,
				`<h2>Rejected rows</h2><p><a href="/api/import/%s/errors">Download error log</a></p><ul>`,
				esc(run.ID)); err != nil {
				return err
			}
			for _, f := range res.Failures {
				if _, err := fmt.Fprintf(w, "<li>%s</li>", esc(f.Message)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "</ul>"); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `<p><a href="/">Back</a></p>`)
		return err
	}))
}

// ErrorAlert is the error box used inside pages.
func ErrorAlert(msg core.UserMessage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="alert" role="alert"><strong>%s</strong><p>%s</p><p class="muted">Code: %s</p></div>`,
			esc(msg.Message), esc(msg.Action), esc(msg.Code))
		return err
	})
}

// ErrorPage is a full page for a single error.
func ErrorPage(msg core.UserMessage) templ.Component {
	return layout("Error", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := ErrorAlert(msg).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<p><a href="/">Back</a></p>`)
		return err
	}))
}
