package protolist

import (
	"fmt"
	"path"
	"strings"
	"sync"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

const (
	// PackageName is the protobuf package of the schema.
	PackageName = "clickhouse_protolist.v1"
	// SchemaFile is the path of the schema relative to the proto root.
	SchemaFile = "clickhouse_list/v1/clickhouse_protolist.proto"
	// ListSchemaFile is the path of the ProtobufList variant of the schema.
	ListSchemaFile = "clickhouse_list/v1/clickhouse_protolist_list.proto"
)

var (
	descriptorOnce sync.Once
	descriptor     protoreflect.FileDescriptor
	descriptorErr  error

	listDescriptorOnce sync.Once
	listDescriptor     protoreflect.FileDescriptor
	listDescriptorErr  error
)

func fileDescriptorProto() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(SchemaFile),
		Package: proto.String(PackageName),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Record"),
				Field: []*descriptorpb.FieldDescriptorProto{{
					Name:     proto.String("my_uint32"),
					JsonName: proto.String("myUint32"),
					Number:   proto.Int32(int32(recordMyUint32)),
					Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
					Type:     descriptorpb.FieldDescriptorProto_TYPE_UINT32.Enum(),
				}},
			},
			{
				Name: proto.String("Envelope"),
				Field: []*descriptorpb.FieldDescriptorProto{{
					Name:     proto.String("row"),
					JsonName: proto.String("row"),
					Number:   proto.Int32(int32(envelopeRow)),
					Label:    descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum(),
					Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
					TypeName: proto.String("." + PackageName + ".Record"),
				}},
			},
		},
	}
}

func listFileDescriptorProto() *descriptorpb.FileDescriptorProto {
	fdp := fileDescriptorProto()
	record, envelope := fdp.MessageType[0], fdp.MessageType[1]

	envelope.NestedType = []*descriptorpb.DescriptorProto{record}
	envelope.Field[0].TypeName = proto.String(".Envelope.Record")

	return &descriptorpb.FileDescriptorProto{
		Name:        proto.String(ListSchemaFile),
		Syntax:      fdp.Syntax,
		MessageType: []*descriptorpb.DescriptorProto{envelope},
	}
}

// Descriptor returns the file descriptor of the clickhouse_protolist schema.
func Descriptor() (protoreflect.FileDescriptor, error) {
	descriptorOnce.Do(func() {
		descriptor, descriptorErr = protodesc.NewFile(fileDescriptorProto(), new(protoregistry.Files))
	})
	return descriptor, descriptorErr
}

func messageDescriptor(fullName string) (protoreflect.MessageDescriptor, error) {
	fd, err := Descriptor()
	if err != nil {
		return nil, err
	}
	name := protoreflect.FullName(fullName).Name()
	md := fd.Messages().ByName(name)
	if md == nil {
		return nil, fmt.Errorf("message %s is not part of %s", fullName, SchemaFile)
	}
	return md, nil
}

// SchemaText renders the schema as .proto source, suitable for installing into
// the ClickHouse format_schemas directory.
func SchemaText() (string, error) {
	fd, err := Descriptor()
	if err != nil {
		return "", err
	}
	return renderFile(fd), nil
}

// ListDescriptor returns the ProtobufList variant of the schema. ClickHouse
// reads a ProtobufList payload through a top level Envelope and resolves the
// format_schema message as a type nested inside it, so Record is declared
// within Envelope. The wire encoding is the same as Descriptor's.
func ListDescriptor() (protoreflect.FileDescriptor, error) {
	listDescriptorOnce.Do(func() {
		listDescriptor, listDescriptorErr = protodesc.NewFile(listFileDescriptorProto(), new(protoregistry.Files))
	})
	return listDescriptor, listDescriptorErr
}

// ListSchemaText renders the ProtobufList variant of the schema as .proto source.
func ListSchemaText() (string, error) {
	fd, err := ListDescriptor()
	if err != nil {
		return "", err
	}
	return renderFile(fd), nil
}

func renderFile(fd protoreflect.FileDescriptor) string {
	var b strings.Builder
	fmt.Fprintf(&b, "syntax = %q;\n", fd.Syntax().String())
	if fd.Package() != "" {
		fmt.Fprintf(&b, "\npackage %s;\n", fd.Package())
	}

	msgs := fd.Messages()
	for i := 0; i < msgs.Len(); i++ {
		b.WriteString("\n")
		renderMessage(&b, msgs.Get(i), "")
	}
	return b.String()
}

func renderMessage(b *strings.Builder, md protoreflect.MessageDescriptor, indent string) {
	fmt.Fprintf(b, "%smessage %s {\n", indent, md.Name())

	nested := md.Messages()
	for i := 0; i < nested.Len(); i++ {
		renderMessage(b, nested.Get(i), indent+"  ")
	}

	fields := md.Fields()
	for j := 0; j < fields.Len(); j++ {
		f := fields.Get(j)

		var label string
		if f.Cardinality() == protoreflect.Repeated {
			label = "repeated "
		}
		typ := f.Kind().String()
		if f.Kind() == protoreflect.MessageKind {
			typ = string(f.Message().Name())
		}
		fmt.Fprintf(b, "%s  %s%s %s = %d;\n", indent, label, typ, f.Name(), f.Number())
	}
	fmt.Fprintf(b, "%s}\n", indent)
}

// FormatSchema returns the value of the ClickHouse format_schema setting for
// the named message of the Protobuf format, with the schema installed under dir.
func FormatSchema(dir string, message string) string {
	if t, ok := Lookup(message); ok {
		message = t.FullName()
	}
	return path.Join(dir, path.Base(SchemaFile)) + ":" + message
}

// ListFormatSchema returns the format_schema value for the ProtobufList
// format: the ListSchemaText file and the short name of the row message
// nested in its Envelope.
func ListFormatSchema(dir string, message string) string {
	if t, ok := Lookup(message); ok {
		message = t.Name()
	}
	return path.Join(dir, path.Base(ListSchemaFile)) + ":" + message
}

// ToJSON decodes m through its descriptor and renders it as protobuf JSON
// using the schema's field names.
func ToJSON(m Message) ([]byte, error) {
	md, err := messageDescriptor(m.FullName())
	if err != nil {
		return nil, err
	}

	b, err := m.Marshal()
	if err != nil {
		return nil, err
	}

	dm := dynamicpb.NewMessage(md)
	if err := proto.Unmarshal(b, dm); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", m.FullName(), err)
	}

	return protojson.MarshalOptions{UseProtoNames: true}.Marshal(dm)
}
