package protolist

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
)

// MaxFrameSize bounds the length prefix accepted by ReadDelimited.
const MaxFrameSize = 64 << 20

// ErrFrameTooLarge is returned when a length prefix exceeds MaxFrameSize.
var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// AppendDelimited appends m to b prefixed by its uvarint encoded length. This
// is the framing ClickHouse expects for each row of the Protobuf format.
func AppendDelimited(b []byte, m Message) ([]byte, error) {
	b = protowire.AppendVarint(b, uint64(m.Size()))
	return m.MarshalAppend(b)
}

// ReadDelimited reads the next length prefixed frame from r into m.
// io.EOF is returned only when r is exhausted on a frame boundary; a
// partial frame yields io.ErrUnexpectedEOF.
func ReadDelimited(r *bufio.Reader, m Message) error {
	size, err := binary.ReadUvarint(r)
	if err != nil {
		return err
	}
	if size > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, size)
	}

	b := make([]byte, size)
	if _, err := io.ReadFull(r, b); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return err
	}

	return m.Unmarshal(b)
}
