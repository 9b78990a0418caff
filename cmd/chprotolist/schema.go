package main

import (
	"fmt"

	"github.com/metdatasystem/chprotolist/pkg/protolist"
	"github.com/spf13/cobra"
)

var (
	list         bool
	listEnvelope bool
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the protobuf schema",
	Long: `Prints the clickhouse_protolist.v1 schema, to be installed in the ClickHouse format_schemas directory.
	With --envelope it prints the ProtobufList variant, which nests Record inside Envelope.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if list {
			for _, typ := range protolist.Types() {
				fmt.Fprintln(out, typ.FullName())
			}
			return nil
		}

		render := protolist.SchemaText
		if listEnvelope {
			render = protolist.ListSchemaText
		}

		text, err := render()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, text)
		return err
	},
}

func init() {
	schemaCmd.Flags().BoolVar(&list, "list", false, "List the registered message types.")
	schemaCmd.Flags().BoolVar(&listEnvelope, "envelope", false, "Print the ProtobufList schema variant.")
}
