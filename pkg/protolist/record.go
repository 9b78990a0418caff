package protolist

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

const recordMyUint32 protowire.Number = 1

// Record is a single row of the clickhouse_protolist table.
type Record struct {
	MyUint32 uint32

	unknown []byte
}

func (*Record) FullName() string { return PackageName + ".Record" }

func (m *Record) Size() int {
	if m == nil {
		return 0
	}
	n := len(m.unknown)
	if m.MyUint32 != 0 {
		n += protowire.SizeTag(recordMyUint32) + protowire.SizeVarint(uint64(m.MyUint32))
	}
	return n
}

func (m *Record) Marshal() ([]byte, error) {
	return m.MarshalAppend(make([]byte, 0, m.Size()))
}

// MarshalAppend appends the wire encoding of the record to b.
// A zero MyUint32 is omitted, as proto3 does for scalar defaults.
func (m *Record) MarshalAppend(b []byte) ([]byte, error) {
	if m == nil {
		return b, nil
	}
	if m.MyUint32 != 0 {
		b = protowire.AppendTag(b, recordMyUint32, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.MyUint32))
	}
	return append(b, m.unknown...), nil
}

func (m *Record) Unmarshal(b []byte) error {
	*m = Record{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("failed to parse %s: %w", m.FullName(), protowire.ParseError(n))
		}

		if num == recordMyUint32 && typ == protowire.VarintType {
			v, vn := protowire.ConsumeVarint(b[n:])
			if vn < 0 {
				return fmt.Errorf("failed to parse %s.my_uint32: %w", m.FullName(), protowire.ParseError(vn))
			}
			m.MyUint32 = uint32(v)
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

func (m *Record) Validate() error { return m.validate(false) }

func (m *Record) ValidateAll() error { return m.validate(true) }

func (m *Record) validate(all bool) error {
	if m == nil {
		return nil
	}

	var errs MultiError

	if m.MyUint32 == 0 {
		err := &ValidationError{
			Message: "Record",
			Field:   "MyUint32",
			Reason:  "value must be greater than 0",
		}
		if !all {
			return err
		}
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
