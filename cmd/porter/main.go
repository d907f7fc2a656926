// Command porter imports and exports entity data from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/application"
	_ "github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/catalog/entities" // Register built-in entities
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/config"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "porter",
		Short:        "Import and export exam system data",
		SilenceUsage: true,
	}
	root.AddCommand(
		newImportCmd(),
		newExportCmd(),
		newEntitiesCmd(),
		newTemplateCmd(),
		newEnvCmd(),
	)
	return root
}

// loadConfig reads .env and the environment, then applies mutate.
func loadConfig(mutate func(*config.Config)) (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(cfg)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, nil
}

func openApp(cmd *cobra.Command, mutate func(*config.Config)) (*application.App, error) {
	cfg, err := loadConfig(mutate)
	if err != nil {
		return nil, err
	}
	app, err := application.Open(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("startup: %w", err)
	}
	return app, nil
}

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the supported environment variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), config.Usage())
			return err
		},
	}
}
