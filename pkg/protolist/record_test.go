package protolist

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMarshal(t *testing.T) {
	b, err := (&Record{MyUint32: 0xffffffff}).Marshal()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x08, 0xff, 0xff, 0xff, 0xff, 0x0f}, b)

	b, err = (&Record{MyUint32: 1}).Marshal()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x08, 0x01}, b)

	b, err = (&Record{}).Marshal()
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestRecordUnmarshal(t *testing.T) {
	r := &Record{}
	require.NoError(t, r.Unmarshal([]byte{0x08, 0xff, 0xff, 0xff, 0xff, 0x0f}))
	assert.Equal(t, uint32(0xffffffff), r.MyUint32)

	// Field 2 (fixed32) is unknown and carried through a re-encode.
	in := []byte{0x08, 0x05, 0x15, 0x01, 0x02, 0x03, 0x04}
	require.NoError(t, r.Unmarshal(in))
	assert.Equal(t, uint32(5), r.MyUint32)
	assert.Equal(t, len(in), r.Size())

	out, err := r.Marshal()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRecordUnmarshalMalformed(t *testing.T) {
	r := &Record{}
	assert.Error(t, r.Unmarshal([]byte{0x08}))
	assert.Error(t, r.Unmarshal([]byte{0x08, 0xff}))
	assert.Error(t, r.Unmarshal([]byte{0x00}))
}

func TestRecordValidate(t *testing.T) {
	assert.NoError(t, (&Record{MyUint32: 1}).Validate())

	var nilRecord *Record
	assert.NoError(t, nilRecord.Validate())

	err := (&Record{}).Validate()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "MyUint32", ve.Field)
	assert.Equal(t, "invalid Record.MyUint32: value must be greater than 0", err.Error())

	err = (&Record{}).ValidateAll()
	var multi MultiError
	require.True(t, errors.As(err, &multi))
	assert.Len(t, multi.AllErrors(), 1)
}

func TestDelimited(t *testing.T) {
	b, err := AppendDelimited(nil, &Record{MyUint32: 0xffffffff})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x06, 0x08, 0xff, 0xff, 0xff, 0xff, 0x0f}, b)

	b, err = AppendDelimited(b, &Record{MyUint32: 2})
	require.NoError(t, err)

	r := bufio.NewReader(bytes.NewReader(b))
	var rec Record

	require.NoError(t, ReadDelimited(r, &rec))
	assert.Equal(t, uint32(0xffffffff), rec.MyUint32)
	require.NoError(t, ReadDelimited(r, &rec))
	assert.Equal(t, uint32(2), rec.MyUint32)
	assert.Equal(t, io.EOF, ReadDelimited(r, &rec))
}

func TestReadDelimitedTruncated(t *testing.T) {
	r := bufio.NewReader(bytes.NewReader([]byte{0x06, 0x08, 0xff}))
	assert.Equal(t, io.ErrUnexpectedEOF, ReadDelimited(r, &Record{}))

	r = bufio.NewReader(bytes.NewReader([]byte{0x80}))
	assert.Equal(t, io.ErrUnexpectedEOF, ReadDelimited(r, &Record{}))
}

func TestReadDelimitedTooLarge(t *testing.T) {
	b := []byte{0x80, 0x80, 0x80, 0x80, 0x01} // 1<<28
	err := ReadDelimited(bufio.NewReader(bytes.NewReader(b)), &Record{})
	assert.True(t, errors.Is(err, ErrFrameTooLarge))
}
