package protolist

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

const envelopeRow protowire.Number = 1

// ErrNilRow is returned when marshalling an Envelope holding a nil row.
var ErrNilRow = errors.New("envelope contains a nil row")

// Envelope wraps a batch of rows for the ClickHouse ProtobufList format.
type Envelope struct {
	Rows []*Record

	unknown []byte
}

func (*Envelope) FullName() string { return PackageName + ".Envelope" }

func (m *Envelope) Size() int {
	if m == nil {
		return 0
	}
	n := len(m.unknown)
	for _, row := range m.Rows {
		n += protowire.SizeTag(envelopeRow) + protowire.SizeBytes(row.Size())
	}
	return n
}

func (m *Envelope) Marshal() ([]byte, error) {
	return m.MarshalAppend(make([]byte, 0, m.Size()))
}

func (m *Envelope) MarshalAppend(b []byte) ([]byte, error) {
	if m == nil {
		return b, nil
	}
	for i, row := range m.Rows {
		if row == nil {
			return nil, fmt.Errorf("row %d: %w", i, ErrNilRow)
		}
		b = protowire.AppendTag(b, envelopeRow, protowire.BytesType)
		b = protowire.AppendVarint(b, uint64(row.Size()))

		var err error
		if b, err = row.MarshalAppend(b); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return append(b, m.unknown...), nil
}

func (m *Envelope) Unmarshal(b []byte) error {
	*m = Envelope{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("failed to parse %s: %w", m.FullName(), protowire.ParseError(n))
		}

		if num == envelopeRow && typ == protowire.BytesType {
			v, vn := protowire.ConsumeBytes(b[n:])
			if vn < 0 {
				return fmt.Errorf("failed to parse %s.row: %w", m.FullName(), protowire.ParseError(vn))
			}
			row := &Record{}
			if err := row.Unmarshal(v); err != nil {
				return fmt.Errorf("row %d: %w", len(m.Rows), err)
			}
			m.Rows = append(m.Rows, row)
			b = b[n+vn:]
			continue
		}

		vn := protowire.ConsumeFieldValue(num, typ, b[n:])
		if vn < 0 {
			return fmt.Errorf("failed to parse %s field %d: %w", m.FullName(), num, protowire.ParseError(vn))
		}
		m.unknown = append(m.unknown, b[:n+vn]...)
		b = b[n+vn:]
	}

	return nil
}

func (m *Envelope) Validate() error { return m.validate(false) }

func (m *Envelope) ValidateAll() error { return m.validate(true) }

func (m *Envelope) validate(all bool) error {
	if m == nil {
		return nil
	}

	var errs MultiError

	if len(m.Rows) < 1 {
		err := &ValidationError{
			Message: "Envelope",
			Field:   "Rows",
			Reason:  "value must contain at least 1 item(s)",
		}
		if !all {
			return err
		}
		errs = append(errs, err)
	}

	for i, row := range m.Rows {
		field := fmt.Sprintf("Rows[%d]", i)

		if row == nil {
			err := &ValidationError{
				Message: "Envelope",
				Field:   field,
				Reason:  "value is required",
			}
			if !all {
				return err
			}
			errs = append(errs, err)
			continue
		}

		var cause error
		if all {
			cause = row.ValidateAll()
		} else {
			cause = row.Validate()
		}
		if cause != nil {
			err := &ValidationError{
				Message: "Envelope",
				Field:   field,
				Reason:  "embedded message failed validation",
				Cause:   cause,
			}
			if !all {
				return err
			}
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
