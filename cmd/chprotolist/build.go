package main

import (
	"context"
	"fmt"
	"math"
	"os/signal"
	"syscall"

	"github.com/metdatasystem/chprotolist/internal/config"
	"github.com/metdatasystem/chprotolist/internal/payload"
	"github.com/metdatasystem/chprotolist/internal/runner"
	"github.com/metdatasystem/chprotolist/internal/sink"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// buildFlags are shared by every command that builds a payload.
type buildFlags struct {
	value        uint
	rows         int
	envelope     bool
	dump         bool
	dumpFilename string
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().UintVar(&f.value, "value", 1, "The my_uint32 value of the first row.")
	cmd.Flags().IntVar(&f.rows, "rows", 1, "The number of rows to build. Each row increments the value.")
	cmd.Flags().BoolVar(&f.envelope, "envelope", false, "Wrap the rows in an Envelope for the ProtobufList format.")
	cmd.Flags().BoolVar(&f.dump, "dump", false, "Dump the payload for debugging.")
	cmd.Flags().StringVar(&f.dumpFilename, "dump-file", "dump.bin", "The dump file name.")
}

func (f *buildFlags) build() (payload.Payload, error) {
	if f.value > math.MaxUint32 {
		return payload.Payload{}, fmt.Errorf("value %d does not fit in uint32", f.value)
	}

	p, err := payload.Build(payload.Options{
		Value:    uint32(f.value),
		Rows:     f.rows,
		Envelope: f.envelope,
	})
	if err != nil {
		return payload.Payload{}, err
	}

	if f.dump {
		if err := payload.Dump(f.dumpFilename, p); err != nil {
			return payload.Payload{}, err
		}
	}

	return p, nil
}

// deliver builds the payload and writes it to the sink of the given kind.
func deliver(kind sink.Kind, flags *buildFlags, opts sink.Options, runOpts runner.Options, health *runner.Health) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := flags.build()
	if err != nil {
		log.Error().Err(err).Msg("failed to build payload")
		return err
	}

	s, err := sink.Open(ctx, kind, config.FromEnv(), opts)
	if err != nil {
		log.Error().Err(err).Str("sink", string(kind)).Msg("failed to open sink")
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Error().Err(err).Str("sink", string(kind)).Msg("failed to close sink")
		}
	}()

	written, err := runner.Run(ctx, s, p, runOpts, health)
	if err != nil {
		log.Error().Err(err).Str("sink", string(kind)).Int("written", written).Msg("failed to write payload")
		return err
	}

	log.Info().Str("sink", string(kind)).Str("format", p.Format.String()).Int("rows", p.Rows).Int("written", written).Msg("done")
	return nil
}
