package porter

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/logging"
)

// DefaultExportDir is the storage directory used when Exporter.Dir is empty.
const DefaultExportDir = "exports"

// Storage persists export files and reports where they can be fetched.
type Storage interface {
	Put(ctx context.Context, name string, data []byte) error
	URL(name string) string
}

// ExportJob describes one export.
type ExportJob struct {
	// Format is the requested format name; see ParseFormat.
	Format  string
	Records []any
	Columns ColumnMap

	// View and Context only apply to pdf exports.
	View    string
	Context map[string]any

	// Stem is the filename prefix; "export-{unix}" when empty, which gives
	// names like export-1700000000-1700000000.csv.
	Stem string
}

// Exporter renders records to files and stores them.
type Exporter struct {
	Storage Storage
	Dir     string

	UnknownFormat UnknownFormatPolicy
	UniqueSuffix  bool

	// Views are the pdf views by name. Nil uses DefaultViews.
	Views map[string]View

	// Now is the clock used for filenames. Nil uses time.Now.
	Now func() time.Time
}

// Rendered is an export file that has not been stored yet.
type Rendered struct {
	Name   string
	Format Format
	Data   []byte
}

// Export renders job, writes it to storage and returns its public URL.
func (e *Exporter) Export(ctx context.Context, job ExportJob) (string, error) {
	if e.Storage == nil {
		return "", ErrNoStorage
	}
	start := time.Now()

	out, err := e.Render(job)
	if err != nil {
		return "", err
	}

	dir := e.Dir
	if dir == "" {
		dir = DefaultExportDir
	}
	name := path.Join(dir, out.Name)
	if err := e.Storage.Put(ctx, name, out.Data); err != nil {
		return "", fmt.Errorf("store %s: %w", name, err)
	}

	logging.FromContext(ctx).Info("export written",
		"file", name,
		"format", string(out.Format),
		"records", len(job.Records),
		"bytes", len(out.Data),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return e.Storage.URL(name), nil
}

// Render produces the export file in memory.
func (e *Exporter) Render(job ExportJob) (*Rendered, error) {
	if job.Columns.Len() == 0 {
		return nil, ErrEmptyColumns
	}

	format, err := ParseFormat(job.Format)
	if err != nil {
		if e.UnknownFormat != PolicyFallbackCSV {
			return nil, err
		}
		format = FormatCSV
	}

	table := BuildTable(job.Records, job.Columns)

	var data []byte
	switch format {
	case FormatCSV:
		data, err = renderCSV(table)
	case FormatXLSX:
		data, err = renderXLSX(table)
	case FormatPDF:
		data, err = e.renderPDF(job, table)
	}
	if err != nil {
		return nil, err
	}

	return &Rendered{Name: e.fileName(job.Stem, format), Format: format, Data: data}, nil
}

func (e *Exporter) renderPDF(job ExportJob, table [][]string) ([]byte, error) {
	views := e.Views
	if views == nil {
		views = DefaultViews()
	}
	name := job.View
	if name == "" {
		name = DefaultView
	}
	view, ok := views[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	return renderPDF(view, newViewData(job, table))
}

func (e *Exporter) fileName(stem string, f Format) string {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	ts := now().Unix()
	stem = strings.TrimSpace(stem)
	if stem == "" {
		stem = fmt.Sprintf("export-%d", ts)
	}
	name := fmt.Sprintf("%s-%d", stem, ts)
	if e.UniqueSuffix {
		name += "-" + uuid.NewString()[:8]
	}
	return name + "." + f.Ext()
}
