package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metdatasystem/chprotolist/internal/payload"
	"github.com/rs/zerolog/log"
)

const insertPayload = `
	INSERT INTO protolist.payloads (format, rows, data, received_at) VALUES
	($1, $2, $3, $4) RETURNING id;
	`

// Postgres archives raw payloads in the protolist.payloads table.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(ctx context.Context, url string) (*Postgres, error) {
	if url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	db, err := newDatabasePool(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise database: %w", err)
	}

	return &Postgres{db: db}, nil
}

func newDatabasePool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func (s *Postgres) Write(ctx context.Context, p payload.Payload) error {
	var id int64
	err := s.db.QueryRow(ctx, insertPayload, p.Format.String(), p.Rows, p.Data, time.Now().UTC()).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to store payload: %w", err)
	}

	log.Debug().Int64("id", id).Str("format", p.Format.String()).Msg("stored payload")
	return nil
}

func (s *Postgres) Close() error {
	s.db.Close()
	return nil
}
