package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"CLICKHOUSE_ADDR", "CLICKHOUSE_USER", "CLICKHOUSE_DEBUG", "CLICKHOUSE_SCHEMA_DIR",
		"KAFKA_BROKERS", "KAFKA_TOPIC", "RABBIT_QUEUE", "S3_BUCKET",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, DefaultClickHouseAddr, cfg.ClickHouse.Addr)
	assert.Equal(t, "default", cfg.ClickHouse.User)
	assert.False(t, cfg.ClickHouse.Debug)
	assert.Equal(t, DefaultSchemaDir, cfg.ClickHouse.SchemaDir)
	assert.Nil(t, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultTopic, cfg.Kafka.Topic)
	assert.Equal(t, DefaultQueue, cfg.Rabbit.Queue)
	assert.Empty(t, cfg.S3.Bucket)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CLICKHOUSE_ADDR", "clickhouse:9000")
	t.Setenv("CLICKHOUSE_USER", "dave")
	t.Setenv("CLICKHOUSE_DEBUG", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("KAFKA_TOPIC", "rows")
	t.Setenv("S3_BUCKET", "bucket")
	t.Setenv("S3_PREFIX", "protolist")

	cfg := FromEnv()
	assert.Equal(t, "clickhouse:9000", cfg.ClickHouse.Addr)
	assert.Equal(t, "dave", cfg.ClickHouse.User)
	assert.True(t, cfg.ClickHouse.Debug)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "rows", cfg.Kafka.Topic)
	assert.Equal(t, S3{Bucket: "bucket", Prefix: "protolist"}, cfg.S3)
}
