// Package protolist implements the clickhouse_protolist.v1 protobuf schema:
// the Record row, the Envelope batch used by the ClickHouse ProtobufList
// format, their field validation, and the length delimited framing used by
// the ClickHouse Protobuf format.
package protolist
