// Command mcp-examples runs one of the example MCP servers over stdio.
//
//	mcp-examples resources   # paginated resource catalog
//	mcp-examples tools       # ping_ip tool
//
// Protocol messages use stdout; structured logs go to stderr.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ggoodman/mcp-stdio-examples/examples/ping_tool"
	"github.com/ggoodman/mcp-stdio-examples/examples/resources_paginated"
	"github.com/ggoodman/mcp-stdio-examples/internal/config"
	"github.com/ggoodman/mcp-stdio-examples/internal/logctx"
	"github.com/ggoodman/mcp-stdio-examples/mcpservice"
	"github.com/ggoodman/mcp-stdio-examples/stdio"
)

type serverFactory func(cfg config.Config, logger *slog.Logger) mcpservice.ServerCapabilities

type rootFlags struct {
	dev      bool
	logLevel string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "mcp-examples",
		Short:         "Example MCP servers speaking JSON-RPC over stdio",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&flags.dev, "dev", false, "development mode (overrides MCP_ENV)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides MCP_LOG_LEVEL)")
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.AddCommand(
		newServeCmd("resources", "Serve the paginated resource catalog", resources_paginated.New, flags),
		newServeCmd("tools", "Serve the ping_ip tool", ping_tool.New, flags),
	)
	return root
}

func newServeCmd(use, short string, factory serverFactory, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			level, err := cfg.SlogLevel()
			if err != nil {
				return err
			}
			logger := slog.New(logctx.NewHandler(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

			h := stdio.NewHandler(
				factory(cfg, logger),
				stdio.WithIO(cmd.InOrStdin(), cmd.OutOrStdout()),
				stdio.WithLogger(logger),
			)
			err = h.Serve(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

func loadConfig(flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if flags.dev {
		cfg.Env = config.EnvDevelopment
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
