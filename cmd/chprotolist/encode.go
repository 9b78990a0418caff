package main

import (
	"github.com/metdatasystem/chprotolist/internal/runner"
	"github.com/metdatasystem/chprotolist/internal/sink"
	"github.com/spf13/cobra"
)

var (
	encodeFlags buildFlags
	fileOptions sink.FileOptions
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Write a payload to a file",
	Long: `Builds a payload and writes it to a file. Files ending in .zst are zstd compressed.
	The file can be fed to clickhouse-client with INSERT ... FORMAT Protobuf.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return deliver(sink.KindFile, &encodeFlags, sink.Options{File: fileOptions}, runner.Options{Count: 1}, nil)
	},
}

func init() {
	encodeFlags.register(encodeCmd)
	encodeCmd.Flags().StringVarP(&fileOptions.Name, "filename", "f", "protoBytes.bin", "The file to write.")
	encodeCmd.Flags().BoolVar(&fileOptions.Append, "append", false, "Append to the file instead of replacing it.")
}
