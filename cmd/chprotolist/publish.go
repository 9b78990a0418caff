package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/metdatasystem/chprotolist/internal/runner"
	"github.com/metdatasystem/chprotolist/internal/sink"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	publishFlags buildFlags
	publishTo    string
	count        int
	interval     time.Duration
	metricsAddr  string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish payloads to Kafka or RabbitMQ",
	Long: `Builds a payload and publishes it to Kafka (KAFKA_BROKERS, KAFKA_TOPIC) or RabbitMQ (RABBIT_URL, RABBIT_QUEUE),
	for ClickHouse Kafka or RabbitMQ engine tables. With --count 0 it publishes until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if count < 0 {
			return fmt.Errorf("%w: %d", runner.ErrNegativeCount, count)
		}

		kind, err := sink.ParseKind(publishTo)
		if err != nil {
			return err
		}
		if kind != sink.KindKafka && kind != sink.KindRabbit {
			return fmt.Errorf("cannot publish to %s", kind)
		}

		health := runner.NewHealth(prometheus.DefaultRegisterer)

		if metricsAddr != "" {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go func() {
				if err := runner.Serve(ctx, metricsAddr, prometheus.DefaultGatherer); err != nil {
					log.Error().Err(err).Msg("failed to serve metrics")
				}
			}()
		}

		return deliver(kind, &publishFlags, sink.Options{}, runner.Options{Count: count, Interval: interval}, health)
	},
}

func init() {
	publishFlags.register(publishCmd)
	publishCmd.Flags().StringVar(&publishTo, "to", "kafka", "The broker to publish to: kafka or rabbit.")
	publishCmd.Flags().IntVar(&count, "count", 1, "The number of payloads to publish. 0 publishes until interrupted.")
	publishCmd.Flags().DurationVar(&interval, "interval", time.Second, "The time to wait between payloads.")
	publishCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "The address to serve Prometheus metrics on.")
}
