package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/aretw0/shopbot"
	"github.com/aretw0/shopbot/internal/cli"
	httpadapter "github.com/aretw0/shopbot/pkg/adapters/http"
	"github.com/aretw0/shopbot/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP messaging endpoint",
	Long: `Serves the assistant over HTTP. Channels post Bot Framework style
activities to /api/messages and receive the replies in the response body.
Session state is exposed under /sessions, with live updates over SSE.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.HTTP.Port, _ = cmd.Flags().GetInt("port")
		}
		noMetrics, _ := cmd.Flags().GetBool("no-metrics")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		streams := httpadapter.NewStreamManager(logger.With("component", "streams"))
		botOpts := []shopbot.Option{shopbot.WithStateObserver(streams.Observe)}
		httpOpts := []httpadapter.Option{
			httpadapter.WithStreams(streams),
			httpadapter.WithMaxInput(cfg.Input.MaxSize),
			httpadapter.WithLogger(logger.With("component", "http")),
		}

		if !noMetrics {
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics, err := observability.NewMetrics(reg)
			if err != nil {
				return err
			}
			botOpts = append(botOpts, shopbot.WithLifecycleHooks(metrics.Hooks()))
			httpOpts = append(httpOpts, httpadapter.WithMetrics(observability.Handler(reg)))
		}

		bot, p, err := cli.NewBot(ctx, cfg, logger, botOpts...)
		if err != nil {
			return err
		}
		defer p.Close()

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
			Handler:           httpadapter.NewHandler(bot, bot.Sessions(), httpOpts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting shopbot server", "addr", srv.Addr, "store", cfg.Store.Driver, "metrics", !noMetrics)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("shutting down", "timeout", shutdownTimeout)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			logger.Info("server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 3978, "Port to listen on (overrides http.port)")
	serveCmd.Flags().Bool("no-metrics", false, "Do not expose /metrics")
}
