package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/metdatasystem/chprotolist/internal/config"
	"github.com/metdatasystem/chprotolist/internal/payload"
	"github.com/metdatasystem/chprotolist/pkg/protolist"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTable   = "clickhouse_protolist.clickhouse_protolist"
	DefaultColumns = "my_uint32"
)

type ClickHouseOptions struct {
	Table   string
	Columns []string
	// Message named by the format_schema setting. Defaults to Record, the row type.
	Message string
}

// ClickHouse inserts payloads as inline Protobuf or ProtobufList data.
type ClickHouse struct {
	conn      driver.Conn
	opts      ClickHouseOptions
	schemaDir string
}

func NewClickHouse(ctx context.Context, cfg config.ClickHouse, opts ClickHouseOptions) (*ClickHouse, error) {
	if opts.Table == "" {
		opts.Table = DefaultTable
	}
	if len(opts.Columns) == 0 {
		opts.Columns = []string{DefaultColumns}
	}
	if opts.Message == "" {
		opts.Message = "Record"
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Debug: cfg.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return &ClickHouse{
		conn:      conn,
		opts:      opts,
		schemaDir: cfg.SchemaDir,
	}, nil
}

// InsertQuery builds a single line INSERT whose inline data follows the FORMAT clause.
func InsertQuery(table string, columns []string, format payload.Format, schema string) string {
	return fmt.Sprintf("INSERT INTO %s (%s) SETTINGS format_schema = '%s' FORMAT %s",
		table, strings.Join(columns, ", "), quoteString(schema), format)
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// quoteString escapes s for use inside a single quoted ClickHouse literal.
func quoteString(s string) string {
	return stringEscaper.Replace(s)
}

// insertStatement appends the payload to the query as inline data.
func insertStatement(query string, data []byte) string {
	return query + "\n" + string(data)
}

// formatSchema picks the schema file matching the payload format. ProtobufList
// needs the variant with the row nested in Envelope.
func formatSchema(dir string, message string, format payload.Format) string {
	if format == payload.ProtobufList {
		return protolist.ListFormatSchema(dir, message)
	}
	return protolist.FormatSchema(dir, message)
}

func (c *ClickHouse) Write(ctx context.Context, p payload.Payload) error {
	schema := formatSchema(c.schemaDir, c.opts.Message, p.Format)
	query := InsertQuery(c.opts.Table, c.opts.Columns, p.Format, schema)

	log.Debug().Str("query", query).Int("rows", p.Rows).Msg("inserting into clickhouse")

	if err := c.conn.Exec(ctx, insertStatement(query, p.Data)); err != nil {
		return fmt.Errorf("failed to execute %s insert: %w", p.Format, err)
	}
	return nil
}

func (c *ClickHouse) Close() error {
	return c.conn.Close()
}
