// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

// Package cli implements the isds command line tool.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sirosfoundation/go-isds/internal/config"
	"github.com/sirosfoundation/go-isds/pkg/isds"
)

// app carries the state shared by all subcommands.
type app struct {
	configPath string
	envFile    string
	production bool
	debug      bool
	output     string

	newClient func(*isds.Config) (*isds.Client, error)
	client    *isds.Client
	logger    *slog.Logger
	out       io.Writer
}

// NewRootCommand builds the isds command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{newClient: isds.NewClient})
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "isds",
		Short: "Czech data box (ISDS) client",
		Long: `isds talks to the Czech data box information system.

Credentials are read from a YAML file given with --config, or from the
ISDS_USERNAME and ISDS_PASSWORD environment variables (a .env file in the
current directory is honoured).

Examples:
  isds messages received --from 2024-01-01
  isds message download 1234567 --out ./message
  isds message send --to abc1234 --subject Invoice --attach invoice.pdf
  isds databox find --ic 00007064
  isds databox owner`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to YAML configuration")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file read when --config is not given")
	flags.BoolVar(&a.production, "production", false, "use the production environment")
	flags.BoolVar(&a.debug, "debug", false, "log raw SOAP traffic")
	flags.StringVarP(&a.output, "output", "o", "text", "output format: text or json")

	rootCmd.AddCommand(newMessagesCmd(a))
	rootCmd.AddCommand(newMessageCmd(a))
	rootCmd.AddCommand(newDataBoxCmd(a))
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.out == nil {
		a.out = cmd.OutOrStdout()
	}
	if a.output != "text" && a.output != "json" {
		return fmt.Errorf("--output must be 'text' or 'json', got '%s'", a.output)
	}
	if a.client != nil {
		if a.logger == nil {
			a.logger = slog.Default()
		}
		return nil
	}

	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.Load(a.configPath)
	} else {
		cfg, err = config.LoadEnv(a.envFile)
	}
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("production") {
		cfg.Production = a.production
	}
	if a.debug {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
	}

	a.logger = cfg.Logger()
	client, err := a.newClient(cfg.ClientConfig(a.logger))
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}
	a.client = client
	return nil
}

// Execute runs the command line tool and exits on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseTime accepts RFC 3339 timestamps and plain dates.
func parseTime(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("--%s: expected YYYY-MM-DD or RFC 3339 time, got %q", flag, value)
	}
	return &t, nil
}
