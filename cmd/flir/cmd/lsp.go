package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/flir-lint/flir/internal/config"
	"github.com/flir-lint/flir/internal/linter"
	"github.com/flir-lint/flir/internal/lspserver"
)

func lspCommand() *cli.Command {
	return &cli.Command{
		Name:  "lsp",
		Usage: "Start the language server",
		Description: `Runs a diagnostics-only language server over stdin/stdout.

Server tuning is read from the environment:
  FLIR_LSP_WORKERS         number of lint workers (default min(GOMAXPROCS, 4))
  FLIR_LSP_QUEUE_CAPACITY  task and event queue size (default 100)`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "stdio",
				Usage: "Communicate over stdin/stdout (the only supported transport)",
				Value: true,
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on `ADDR` (e.g. localhost:9464)",
			},
			&cli.BoolFlag{
				Name:  "watch-config",
				Usage: "Re-lint open documents when flir.toml changes",
				Value: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if !cmd.Bool("stdio") {
				return errors.New("only the stdio transport is supported")
			}
			logger, closeLog, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			settings, err := config.LoadServerSettings(nil)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var metrics *lspserver.Metrics
			if addr := cmd.String("metrics-addr"); addr != "" {
				reg := prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				metrics = lspserver.NewMetrics(reg)
				shutdown, err := serveMetrics(addr, reg, logger)
				if err != nil {
					return err
				}
				defer shutdown()
			}

			server := lspserver.New(lspserver.Options{
				Linter:      linter.New(linter.WithLogger(logger)),
				Logger:      logger,
				Settings:    settings,
				Metrics:     metrics,
				WatchConfig: cmd.Bool("watch-config"),
			})
			logger.WithFields(logrus.Fields{
				"workers":  settings.Workers,
				"capacity": settings.QueueCapacity,
			}).Info("starting language server")

			err = server.RunStdio(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

// serveMetrics starts the /metrics endpoint and returns a function that
// stops it.
func serveMetrics(addr string, reg *prometheus.Registry, logger *logrus.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server stopped")
		}
	}()
	logger.WithField("addr", ln.Addr().String()).Info("serving metrics")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
