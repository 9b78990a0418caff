package protolist

import "strings"

// Message is implemented by every message type of the clickhouse_protolist schema.
type Message interface {
	Validator

	FullName() string
	Size() int
	Marshal() ([]byte, error)
	MarshalAppend([]byte) ([]byte, error)
	Unmarshal([]byte) error
}

// MessageType describes a registered message and constructs new instances of it.
type MessageType struct {
	name string
	new  func() Message
}

// Name returns the short message name, eg "Record".
func (t MessageType) Name() string { return t.name }

// FullName returns the package qualified message name.
func (t MessageType) FullName() string { return PackageName + "." + t.name }

// New returns a zero message of this type.
func (t MessageType) New() Message { return t.new() }

// Declaration order of the schema.
var types = []MessageType{
	{name: "Record", new: func() Message { return new(Record) }},
	{name: "Envelope", new: func() Message { return new(Envelope) }},
}

var (
	_ Message = (*Record)(nil)
	_ Message = (*Envelope)(nil)
)

// Types returns every registered message type in declaration order.
func Types() []MessageType {
	return append([]MessageType(nil), types...)
}

// Lookup finds a message type by its short or full name. Short names match
// case-insensitively.
func Lookup(name string) (MessageType, bool) {
	for _, t := range types {
		if name == t.FullName() || strings.EqualFold(name, t.name) {
			return t, true
		}
	}
	return MessageType{}, false
}
