package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/config"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/core"
)

type exportOptions struct {
	format string
	search string
	limit  uint64
	title  string
	outDir string
}

func newExportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export <entity>",
		Short: "Export an entity to pdf, xlsx or csv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd, func(c *config.Config) {
				if opts.outDir != "" {
					c.Export.StorageRoot = opts.outDir
				}
			})
			if err != nil {
				return err
			}
			defer app.Close()

			url, err := app.Service.Export(cmd.Context(), args[0], core.ExportRequest{
				Format: opts.format,
				Search: opts.search,
				Limit:  opts.limit,
				Title:  opts.title,
			})
			if err != nil {
				return errors.New(core.FormatUserError(err))
			}

			fmt.Fprintln(cmd.OutOrStdout(), exportLocation(app.Config.Export, url))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "csv", "Output format: pdf, xlsx (excel) or csv")
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "Only export records matching this term")
	cmd.Flags().Uint64Var(&opts.limit, "limit", 0, "Maximum records (0 uses EXPORT_MAX_ROWS)")
	cmd.Flags().StringVar(&opts.title, "title", "", "Title printed on pdf exports")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "Storage root for the file (overrides EXPORT_STORAGE_ROOT)")
	return cmd
}

// exportLocation is the file path when no public URL is configured.
func exportLocation(cfg config.ExportConfig, url string) string {
	if cfg.PublicURL != "" {
		return url
	}
	return filepath.Join(cfg.StorageRoot, filepath.FromSlash(strings.TrimPrefix(url, "/")))
}
