package runner

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/metdatasystem/chprotolist/internal/payload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// ErrNegativeCount is returned by Run when Options.Count is below zero.
var ErrNegativeCount = errors.New("count must not be negative")

// Writer is the part of a sink the runner needs.
type Writer interface {
	Write(ctx context.Context, p payload.Payload) error
}

type Options struct {
	// Count of writes. Zero writes until the context is cancelled.
	Count int
	// Interval to wait between writes.
	Interval time.Duration
}

// Run writes p to w according to opts and returns the number of successful
// writes. Cancelling ctx stops the run without an error.
func Run(ctx context.Context, w Writer, p payload.Payload, opts Options, health *Health) (int, error) {
	if opts.Count < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeCount, opts.Count)
	}

	var written int

	for opts.Count == 0 || written < opts.Count {
		if ctx.Err() != nil {
			return written, nil
		}

		start := time.Now()
		err := w.Write(ctx, p)
		if health != nil {
			health.WriteSeconds.Observe(time.Since(start).Seconds())
		}
		if err != nil {
			if health != nil {
				health.WriteErrors.Inc()
			}
			if ctx.Err() != nil {
				return written, nil
			}
			return written, err
		}

		written++
		if health != nil {
			health.Writes.Inc()
			health.Rows.Add(float64(p.Rows))
		}
		log.Debug().Int("written", written).Int("rows", p.Rows).Str("format", p.Format.String()).Msg("wrote payload")

		if written == opts.Count || opts.Interval <= 0 {
			continue
		}

		timer := time.NewTimer(opts.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return written, nil
		case <-timer.C:
		}
	}

	return written, nil
}

// Serve exposes the metrics of g on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return ServeListener(ctx, l, g)
}

// ServeListener is Serve on an already bound listener, which it closes.
func ServeListener(ctx context.Context, l net.Listener, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	server := &http.Server{Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shut down metrics server")
		}
	}()

	log.Info().Str("addr", l.Addr().String()).Msg("serving metrics")
	if err := server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
