package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	DefaultClickHouseAddr = "127.0.0.1:9001"
	DefaultSchemaDir      = "/var/lib/clickhouse/format_schemas"
	DefaultTopic          = "clickhouse_protolist"
	DefaultQueue          = "clickhouse_protolist"
)

type ClickHouse struct {
	Addr      string
	User      string
	Password  string
	Database  string
	Debug     bool
	SchemaDir string
}

type Kafka struct {
	Brokers []string
	Topic   string
}

type Rabbit struct {
	URL   string
	Queue string
}

type S3 struct {
	Bucket string
	Prefix string
}

// Config holds the connection settings of every sink. It is read from the
// environment once the env file has been loaded.
type Config struct {
	ClickHouse  ClickHouse
	DatabaseURL string
	Kafka       Kafka
	Rabbit      Rabbit
	S3          S3
}

func FromEnv() Config {
	debug, _ := strconv.ParseBool(os.Getenv("CLICKHOUSE_DEBUG"))

	return Config{
		ClickHouse: ClickHouse{
			Addr:      getenv("CLICKHOUSE_ADDR", DefaultClickHouseAddr),
			User:      getenv("CLICKHOUSE_USER", "default"),
			Password:  os.Getenv("CLICKHOUSE_PASSWORD"),
			Database:  os.Getenv("CLICKHOUSE_DATABASE"),
			Debug:     debug,
			SchemaDir: getenv("CLICKHOUSE_SCHEMA_DIR", DefaultSchemaDir),
		},
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Kafka: Kafka{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getenv("KAFKA_TOPIC", DefaultTopic),
		},
		Rabbit: Rabbit{
			URL:   os.Getenv("RABBIT_URL"),
			Queue: getenv("RABBIT_QUEUE", DefaultQueue),
		},
		S3: S3{
			Bucket: os.Getenv("S3_BUCKET"),
			Prefix: os.Getenv("S3_PREFIX"),
		},
	}
}

func getenv(key string, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
