package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"FinScore/internal/di"
	"FinScore/pkg/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "finscore",
		Short:         "Enriches a stock universe with prices, fundamentals and a value score",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.yaml", "config file path")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the scheduled refresh",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadWithEnv(configPath)
			if err != nil {
				return fmt.Errorf("config load failed: %w", err)
			}
			app, cleanup, err := di.InitializeApp(cfg)
			if err != nil {
				return fmt.Errorf("app initialization failed: %w", err)
			}
			defer cleanup()
			return app.Run(cmd.Context())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "snapshot",
		Short: "Run one forced refresh and print the cache as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadWithEnv(configPath)
			if err != nil {
				return fmt.Errorf("config load failed: %w", err)
			}
			// stdout carries the JSON document
			if cfg.Log.Output == "" || cfg.Log.Output == "stdout" {
				cfg.Log.Output = "stderr"
			}
			enr, cleanup, err := di.InitializeEnricher(cfg)
			if err != nil {
				return fmt.Errorf("pipeline initialization failed: %w", err)
			}
			defer cleanup()

			if err := enr.Refresh(cmd.Context(), true); err != nil {
				return fmt.Errorf("refresh: %w", err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(enr.Snapshot())
		},
	})

	return root
}
