package main

import (
	"github.com/metdatasystem/chprotolist/internal/runner"
	"github.com/metdatasystem/chprotolist/internal/sink"
	"github.com/spf13/cobra"
)

var storeFlags buildFlags

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Archive a payload in Postgres",
	Long:  `Builds a payload and stores the raw bytes in the protolist.payloads table of DATABASE_URL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return deliver(sink.KindPostgres, &storeFlags, sink.Options{}, runner.Options{Count: 1}, nil)
	},
}

func init() {
	storeFlags.register(storeCmd)
}
