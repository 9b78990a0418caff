package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/metdatasystem/chprotolist/internal/config"
	"github.com/metdatasystem/chprotolist/internal/payload"
)

// Sink is a destination for framed payloads.
type Sink interface {
	Write(ctx context.Context, p payload.Payload) error
	Close() error
}

type Kind string

const (
	KindFile       Kind = "file"
	KindClickHouse Kind = "clickhouse"
	KindPostgres   Kind = "postgres"
	KindKafka      Kind = "kafka"
	KindRabbit     Kind = "rabbit"
	KindS3         Kind = "s3"
)

var kinds = []Kind{KindFile, KindClickHouse, KindPostgres, KindKafka, KindRabbit, KindS3}

func ParseKind(s string) (Kind, error) {
	for _, k := range kinds {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sink %q", s)
}

// Options carries the per command settings of the sinks that have them.
type Options struct {
	File       FileOptions
	ClickHouse ClickHouseOptions
}

// Open connects the sink of the given kind.
func Open(ctx context.Context, kind Kind, cfg config.Config, opts Options) (Sink, error) {
	switch kind {
	case KindFile:
		return open(NewFile(opts.File))
	case KindClickHouse:
		return open(NewClickHouse(ctx, cfg.ClickHouse, opts.ClickHouse))
	case KindPostgres:
		return open(NewPostgres(ctx, cfg.DatabaseURL))
	case KindKafka:
		return open(NewKafka(cfg.Kafka))
	case KindRabbit:
		return open(NewRabbit(cfg.Rabbit))
	case KindS3:
		return open(NewS3(ctx, cfg.S3))
	}
	return nil, fmt.Errorf("unknown sink %q", kind)
}

// open keeps a failed constructor from returning a typed nil Sink.
func open[T Sink](s T, err error) (Sink, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
