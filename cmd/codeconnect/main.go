// Command codeconnect runs the project publishing form in the terminal, or
// serves its backend over HTTP with `codeconnect serve`.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"codeconnect/internal/config"
	"codeconnect/internal/logging"
	"codeconnect/internal/service"
	"codeconnect/internal/trace"
	"codeconnect/internal/ui"
	"codeconnect/internal/upload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "codeconnect",
		Short:         "Publish a project to CodeConnect from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runForm(cmd.Context(), cfg)
		},
	}
	config.RegisterFlags(root.PersistentFlags())
	root.AddCommand(newServeCmd())
	return root
}

// loadConfig resolves defaults, the --config file, the environment and the
// flags set on cmd, in that order.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	path, err := flags.GetString(config.FlagConfig)
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyFlags(flags); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newBackend builds the backend selected by cfg.
func newBackend(cfg config.Config) service.Backend {
	if cfg.Backend == config.BackendHTTP {
		return service.NewHTTP(cfg.BackendURL, cfg.HTTPTimeout)
	}
	return service.NewSimulated(
		service.WithDelays(cfg.Delays),
		service.WithSuccessRate(cfg.PublishSuccessRate),
	)
}

// startTracing returns the tracer provider and a shutdown func that flushes it.
func startTracing(ctx context.Context, log zerolog.Logger) (*trace.Provider, func()) {
	tp, err := trace.NewProvider(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("tracing disabled")
		return nil, func() {}
	}
	return tp, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("flush traces")
		}
	}
}

func runForm(ctx context.Context, cfg config.Config) error {
	log, f, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer f.Close()

	tp, shutdown := startTracing(ctx, log)
	defer shutdown()

	log.Info().Str("backend", cfg.Backend).Msg("starting form")
	model := ui.NewAppModel(ui.Deps{
		Backend:  trace.WrapBackend(newBackend(cfg), tp.TracerProvider()),
		Reader:   trace.WrapFileReader(upload.DiskReader{}, tp.TracerProvider()),
		Logger:   log,
		Settings: cfg.FormSettings(),
		Context:  ctx,
	})
	p := tea.NewProgram(model.AsTeaModel(), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}
	log.Info().Msg("form closed")
	return nil
}
