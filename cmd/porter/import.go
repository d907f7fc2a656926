package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/core"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/porter"
)

type importOptions struct {
	dryRun    bool
	errorsOut string
	strict    bool
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <entity> <file>",
		Short: "Import a CSV file; use - to read stdin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer app.Close()

			src := sourceFor(args[1], cmd)
			var run *core.ImportRun
			if opts.dryRun {
				run, err = app.Service.Validate(cmd.Context(), args[0], src)
			} else {
				run, err = app.Service.Import(cmd.Context(), args[0], src)
			}
			if err != nil {
				return errors.New(core.FormatUserError(err))
			}
			return reportImport(cmd, app.Service, run, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Validate the file without writing to the database")
	cmd.Flags().StringVar(&opts.errorsOut, "errors", "", "Write rejected rows as CSV to this file")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit non-zero when any row is skipped")
	return cmd
}

func sourceFor(arg string, cmd *cobra.Command) porter.Source {
	if arg == "-" {
		return porter.ReaderSource{FileName: "stdin.csv", Reader: cmd.InOrStdin()}
	}
	return porter.FileSource(arg)
}

func reportImport(cmd *cobra.Command, svc *core.Service, run *core.ImportRun, opts importOptions) error {
	out := cmd.OutOrStdout()
	res := run.Result

	if res.Err != nil {
		return errors.New(core.FormatUserError(res.Err))
	}

	fmt.Fprintf(out, "%s: %s (%s)\n", run.Entity, res.Summary(), run.Duration.Round(time.Millisecond))
	for _, msg := range res.Errors {
		fmt.Fprintln(out, "  "+msg)
	}

	if opts.errorsOut != "" && (len(res.Failures) > 0 || res.Interrupted != nil) {
		f, err := os.Create(opts.errorsOut)
		if err != nil {
			return fmt.Errorf("create error log: %w", err)
		}
		if err := svc.ErrorLog(run.ID, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(out, "error log written to %s\n", opts.errorsOut)
	}

	if res.Interrupted != nil {
		return errors.New(core.FormatUserError(res.Interrupted))
	}
	if opts.strict && res.Skipped > 0 {
		return fmt.Errorf("%d row(s) skipped", res.Skipped)
	}
	return nil
}
