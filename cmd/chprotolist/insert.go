package main

import (
	"github.com/metdatasystem/chprotolist/internal/runner"
	"github.com/metdatasystem/chprotolist/internal/sink"
	"github.com/spf13/cobra"
)

var (
	insertFlags       buildFlags
	clickhouseOptions sink.ClickHouseOptions
)

var insertCmd = &cobra.Command{
	Use:   "insert",
	Short: "Insert a payload into ClickHouse",
	Long: `Builds a payload and inserts it into ClickHouse using the Protobuf or ProtobufList format.
	The schema printed by the schema command must be installed in the server's format_schemas directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return deliver(sink.KindClickHouse, &insertFlags, sink.Options{ClickHouse: clickhouseOptions}, runner.Options{Count: 1}, nil)
	},
}

func init() {
	insertFlags.register(insertCmd)
	insertCmd.Flags().StringVar(&clickhouseOptions.Table, "table", sink.DefaultTable, "The table to insert into.")
	insertCmd.Flags().StringSliceVar(&clickhouseOptions.Columns, "columns", []string{sink.DefaultColumns}, "The columns to insert.")
	insertCmd.Flags().StringVar(&clickhouseOptions.Message, "message", "Record", "The row message named by format_schema. ProtobufList payloads use the variant schema from schema --envelope.")
}
