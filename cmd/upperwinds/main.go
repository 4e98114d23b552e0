package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	httpadapter "github.com/couchcryptid/upper-winds-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/upper-winds-etl/internal/adapter/kafka"
	mongoadapter "github.com/couchcryptid/upper-winds-etl/internal/adapter/mongo"
	"github.com/couchcryptid/upper-winds-etl/internal/adapter/navcanada"
	"github.com/couchcryptid/upper-winds-etl/internal/config"
	"github.com/couchcryptid/upper-winds-etl/internal/observability"
	"github.com/couchcryptid/upper-winds-etl/internal/pipeline"
	"github.com/couchcryptid/upper-winds-etl/internal/scheduler"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "upperwinds",
		Short:         "NAV CANADA upper winds ETL",
		Long:          "Fetch upper wind forecasts per airport, bucket them into AM/PM/NIGHT, and store one document per airport.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(runCmd())
	return rootCmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the job daily and expose health and metrics endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			logger := observability.NewLogger(cfg)
			metrics := observability.NewMetrics()

			p, closeSinks := buildPipeline(cfg, cfg.AirportCodes, logger, metrics)
			defer closeSinks()

			sched, err := scheduler.New(cfg.ScheduleAt, cfg.ScheduleTimezone, func(ctx context.Context) {
				p.Run(ctx)
			}, logger)
			if err != nil {
				return err
			}

			srv := httpadapter.NewServer(cfg.HTTPAddr, sched, sched, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Start HTTP server.
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server error", "error", err)
				}
			}()

			sched.Start(ctx)

			<-ctx.Done()
			logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
			sched.Stop()

			logger.Info("shutdown complete")
			return nil
		},
	}
}

func runCmd() *cobra.Command {
	var codes string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the job once over the configured airports and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			airports := cfg.AirportCodes
			if codes != "" {
				airports = config.ParseAirportCodes(codes)
				if len(airports) == 0 {
					return errors.New("--codes contains no airport codes")
				}
			}

			logger := observability.NewLogger(cfg)
			metrics := observability.NewMetrics()

			p, closeSinks := buildPipeline(cfg, airports, logger, metrics)
			defer closeSinks()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			report := p.Run(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "stored: %s\nfailed: %s\n",
				joinOrNone(report.Stored), joinOrNone(report.Failed))

			if len(report.Failed) > 0 {
				return fmt.Errorf("%d of %d airport codes failed", len(report.Failed), len(airports))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&codes, "codes", "", "comma-separated airport codes overriding AIRPORT_CODES")
	return cmd
}

// buildPipeline wires the NAV CANADA fetcher to the Mongo sink, teeing to
// Kafka when brokers are configured. The returned func closes the sinks.
func buildPipeline(cfg *config.Config, codes []string, logger *slog.Logger, metrics *observability.Metrics) (*pipeline.Pipeline, func()) {
	fetcher := navcanada.NewClient(cfg.NavCanadaBaseURL, cfg.FetchTimeout, metrics, logger)
	sinks := []pipeline.Sink{mongoadapter.NewSink(cfg, logger)}
	closeSinks := func() {}

	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		sinks = append(sinks, writer)
		closeSinks = func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	p := pipeline.New(fetcher, pipeline.Tee(metrics, sinks...), codes, logger, metrics)
	return p, closeSinks
}

func joinOrNone(codes []string) string {
	if len(codes) == 0 {
		return "none"
	}
	return strings.Join(codes, ", ")
}
