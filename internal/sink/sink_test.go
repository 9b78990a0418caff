package sink

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/metdatasystem/chprotolist/internal/config"
	"github.com/metdatasystem/chprotolist/internal/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, opts payload.Options) payload.Payload {
	p, err := payload.Build(opts)
	require.NoError(t, err)
	return p
}

func readAll(t *testing.T, name string) []byte {
	r, err := OpenFile(name)
	require.NoError(t, err)
	defer r.Close()

	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return b
}

func TestFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "protoBytes.bin")
	p := build(t, payload.Options{Value: 0xffffffff})

	f, err := NewFile(FileOptions{Name: name})
	require.NoError(t, err)
	require.NoError(t, f.Write(context.Background(), p))
	require.NoError(t, f.Write(context.Background(), p))
	assert.Equal(t, []byte{0x06, 0x08, 0xff, 0xff, 0xff, 0xff, 0x0f}, readAll(t, name))

	f, err = NewFile(FileOptions{Name: name, Append: true})
	require.NoError(t, err)
	require.NoError(t, f.Write(context.Background(), p))
	assert.Equal(t, append(append([]byte{}, p.Data...), p.Data...), readAll(t, name))
}

func TestFileCompressed(t *testing.T) {
	name := filepath.Join(t.TempDir(), "rows.bin.zst")
	first := build(t, payload.Options{Value: 1, Rows: 2})
	second := build(t, payload.Options{Value: 3})

	f, err := NewFile(FileOptions{Name: name, Append: true})
	require.NoError(t, err)
	require.NoError(t, f.Write(context.Background(), first))
	require.NoError(t, f.Write(context.Background(), second))

	assert.Equal(t, append(append([]byte{}, first.Data...), second.Data...), readAll(t, name))
}

func TestFileErrors(t *testing.T) {
	_, err := NewFile(FileOptions{})
	assert.Error(t, err)

	f, err := NewFile(FileOptions{Name: filepath.Join(t.TempDir(), "missing", "rows.bin")})
	require.NoError(t, err)
	assert.ErrorContains(t, f.Write(context.Background(), build(t, payload.Options{Value: 1})), "error writing to file")
}

func TestInsertQuery(t *testing.T) {
	schema := "/var/lib/clickhouse/format_schemas/clickhouse_protolist.proto:clickhouse_protolist.v1.Record"

	assert.Equal(t,
		"INSERT INTO clickhouse_protolist.clickhouse_protolist (my_uint32) SETTINGS format_schema = '"+schema+"' FORMAT Protobuf",
		InsertQuery(DefaultTable, []string{DefaultColumns}, payload.Protobuf, schema))
	assert.Equal(t,
		"INSERT INTO t (a, b) SETTINGS format_schema = 's' FORMAT ProtobufList",
		InsertQuery("t", []string{"a", "b"}, payload.ProtobufList, "s"))
}

func TestInsertQueryEscapesSchema(t *testing.T) {
	assert.Equal(t,
		`INSERT INTO t (a) SETTINGS format_schema = '/srv/o\'brien\\x/s.proto:R' FORMAT Protobuf`,
		InsertQuery("t", []string{"a"}, payload.Protobuf, `/srv/o'brien\x/s.proto:R`))
}

func TestFormatSchemaByFormat(t *testing.T) {
	dir := "/var/lib/clickhouse/format_schemas"

	assert.Equal(t,
		dir+"/clickhouse_protolist.proto:clickhouse_protolist.v1.Record",
		formatSchema(dir, "Record", payload.Protobuf))
	assert.Equal(t,
		dir+"/clickhouse_protolist_list.proto:Record",
		formatSchema(dir, "Record", payload.ProtobufList))
}

func TestInsertStatement(t *testing.T) {
	p := build(t, payload.Options{Value: 1, Rows: 2, Envelope: true})
	query := InsertQuery(DefaultTable, []string{DefaultColumns}, p.Format, formatSchema("/schemas", "Record", p.Format))

	stmt := insertStatement(query, p.Data)
	assert.Equal(t,
		"INSERT INTO clickhouse_protolist.clickhouse_protolist (my_uint32) SETTINGS format_schema = '/schemas/clickhouse_protolist_list.proto:Record' FORMAT ProtobufList\n"+string(p.Data),
		stmt)
	assert.Equal(t, p.Data, []byte(stmt[len(query)+1:]))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Kafka")
	require.NoError(t, err)
	assert.Equal(t, KindKafka, k)

	_, err = ParseKind("nats")
	assert.Error(t, err)
}

func TestOpenMissingConfig(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{}

	for _, kind := range []Kind{KindFile, KindPostgres, KindKafka, KindRabbit, KindS3} {
		s, err := Open(ctx, kind, cfg, Options{})
		assert.Error(t, err, kind)
		assert.Nil(t, s, kind)
	}

	_, err := Open(ctx, Kind("nats"), cfg, Options{})
	assert.Error(t, err)
}

func TestObjectKey(t *testing.T) {
	ts := time.Unix(1700000000, 42)

	assert.Equal(t, "1700000000000000042.protobuf.bin", objectKey("", payload.Protobuf, ts))
	assert.Equal(t, "rows/2024/1700000000000000042.protobuflist.bin", objectKey("rows/2024/", payload.ProtobufList, ts))
}

func TestKafkaRecord(t *testing.T) {
	p := build(t, payload.Options{Value: 1, Rows: 2, Envelope: true})
	r := kafkaRecord("clickhouse_protolist", p)

	assert.Equal(t, "clickhouse_protolist", r.Topic)
	assert.Equal(t, p.Data, r.Value)
	require.Len(t, r.Headers, 1)
	assert.Equal(t, "application/x-protobuf; format=ProtobufList", string(r.Headers[0].Value))
}

func TestPublishing(t *testing.T) {
	now := time.Now()
	p := build(t, payload.Options{Value: 1, Rows: 3})
	msg := publishing(p, now)

	assert.Equal(t, "application/x-protobuf; format=Protobuf", msg.ContentType)
	assert.Equal(t, appID, msg.AppId)
	assert.Equal(t, now, msg.Timestamp)
	assert.Equal(t, int32(3), msg.Headers["rows"])
	assert.Equal(t, p.Data, msg.Body)
}
