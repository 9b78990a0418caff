package protolist

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeMarshal(t *testing.T) {
	env := &Envelope{Rows: []*Record{{MyUint32: 1}, {MyUint32: 2}}}

	b, err := env.Marshal()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a, 0x02, 0x08, 0x01, 0x0a, 0x02, 0x08, 0x02}, b)
	assert.Equal(t, len(b), env.Size())

	out := &Envelope{}
	require.NoError(t, out.Unmarshal(b))
	require.Len(t, out.Rows, 2)
	assert.Equal(t, uint32(1), out.Rows[0].MyUint32)
	assert.Equal(t, uint32(2), out.Rows[1].MyUint32)
}

func TestEnvelopeMarshalNilRow(t *testing.T) {
	_, err := (&Envelope{Rows: []*Record{{MyUint32: 1}, nil}}).Marshal()
	assert.True(t, errors.Is(err, ErrNilRow))
}

func TestEnvelopeUnmarshalBadRow(t *testing.T) {
	// A row whose length prefix runs past the end of the buffer.
	assert.Error(t, (&Envelope{}).Unmarshal([]byte{0x0a, 0x05, 0x08}))
	// A row whose content is malformed.
	assert.Error(t, (&Envelope{}).Unmarshal([]byte{0x0a, 0x01, 0x08}))
}

func TestEnvelopeValidate(t *testing.T) {
	assert.NoError(t, (&Envelope{Rows: []*Record{{MyUint32: 1}}}).Validate())

	var ve *ValidationError

	err := (&Envelope{}).Validate()
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Rows", ve.Field)

	err = (&Envelope{Rows: []*Record{{MyUint32: 1}, nil}}).Validate()
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Rows[1]", ve.Field)
	assert.Equal(t, "value is required", ve.Reason)

	err = (&Envelope{Rows: []*Record{{MyUint32: 1}, {}}}).Validate()
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Rows[1]", ve.Field)
	assert.Equal(t, "invalid Envelope.Rows[1]: embedded message failed validation | caused by: invalid Record.MyUint32: value must be greater than 0", err.Error())
}

func TestEnvelopeValidateAll(t *testing.T) {
	err := (&Envelope{Rows: []*Record{{}, nil, {MyUint32: 3}, {}}}).ValidateAll()

	var multi MultiError
	require.True(t, errors.As(err, &multi))
	require.Len(t, multi, 3)

	var fields []string
	for _, e := range multi {
		var ve *ValidationError
		require.True(t, errors.As(e, &ve))
		fields = append(fields, ve.Field)
	}
	assert.Equal(t, []string{"Rows[0]", "Rows[1]", "Rows[3]"}, fields)
}

func TestValidateContract(t *testing.T) {
	var msg string

	assert.True(t, Validate(&Record{MyUint32: 7}, &msg))
	assert.Empty(t, msg)

	assert.False(t, Validate(&Envelope{}, &msg))
	assert.Equal(t, "invalid Envelope.Rows: value must contain at least 1 item(s)", msg)

	assert.False(t, Validate(&Record{}, nil))
	assert.True(t, Validate(nil, &msg))
}
