package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"codeconnect/internal/config"
	"codeconnect/internal/logging"
	"codeconnect/internal/server"
	"codeconnect/internal/trace"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the tag, email and publish backend over HTTP",
		Example: "  codeconnect serve --addr :8080\n" +
			"  codeconnect --backend http --backend-url http://localhost:8080",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(ctx context.Context, cfg config.Config) error {
	log, err := logging.ForWriter(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	tp, shutdown := startTracing(ctx, log)
	defer shutdown()

	srv, err := server.New(trace.WrapBackend(newBackend(cfg), tp.TracerProvider()), server.Options{
		Logger:      log,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, cfg.Addr)
}
