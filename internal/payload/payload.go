package payload

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/metdatasystem/chprotolist/pkg/protolist"
)

// Format is the ClickHouse input format a payload is framed for.
type Format int

const (
	// Protobuf is a sequence of length delimited Records.
	Protobuf Format = iota
	// ProtobufList is a single undelimited Envelope holding every Record.
	ProtobufList
)

func (f Format) String() string {
	switch f {
	case Protobuf:
		return "Protobuf"
	case ProtobufList:
		return "ProtobufList"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ContentType is the MIME type used when a payload travels over a broker.
func (f Format) ContentType() string {
	return "application/x-protobuf; format=" + f.String()
}

var (
	ErrValueOverflow = errors.New("value range overflows uint32")
	ErrNegativeRows  = errors.New("rows must not be negative")
)

type Options struct {
	// Value of my_uint32 in the first row. Each following row increments it.
	Value uint32
	// Rows to build. Zero means one.
	Rows int
	// Envelope wraps the rows for the ProtobufList format.
	Envelope bool
}

type Payload struct {
	Format Format
	Data   []byte
	Rows   int
}

// Build creates and validates the rows described by opts and frames them for
// the selected format.
func Build(opts Options) (Payload, error) {
	rows := opts.Rows
	if rows < 0 {
		return Payload{}, fmt.Errorf("%w: %d", ErrNegativeRows, rows)
	} else if rows == 0 {
		rows = 1
	}
	if uint64(opts.Value)+uint64(rows)-1 > math.MaxUint32 {
		return Payload{}, fmt.Errorf("%w: %d rows from %d", ErrValueOverflow, rows, opts.Value)
	}

	records := make([]*protolist.Record, rows)
	for i := range records {
		records[i] = &protolist.Record{MyUint32: opts.Value + uint32(i)}
	}

	if opts.Envelope {
		return buildEnvelope(records)
	}

	var data []byte
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return Payload{}, err
		}

		var err error
		if data, err = protolist.AppendDelimited(data, record); err != nil {
			return Payload{}, fmt.Errorf("failed to marshal record: %w", err)
		}
	}

	return Payload{Format: Protobuf, Data: data, Rows: rows}, nil
}

func buildEnvelope(records []*protolist.Record) (Payload, error) {
	envelope := &protolist.Envelope{Rows: records}
	if err := envelope.Validate(); err != nil {
		return Payload{}, err
	}

	data, err := envelope.Marshal()
	if err != nil {
		return Payload{}, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	return Payload{Format: ProtobufList, Data: data, Rows: len(records)}, nil
}

// Dump writes the raw payload bytes to path for inspection.
func Dump(path string, p Payload) error {
	if err := os.WriteFile(path, p.Data, 0644); err != nil {
		return fmt.Errorf("failed to write dump: %w", err)
	}
	return nil
}
