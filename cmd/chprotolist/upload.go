package main

import (
	"github.com/metdatasystem/chprotolist/internal/runner"
	"github.com/metdatasystem/chprotolist/internal/sink"
	"github.com/spf13/cobra"
)

var uploadFlags buildFlags

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a payload to S3",
	Long:  `Builds a payload and uploads it to S3_BUCKET under S3_PREFIX, for the ClickHouse s3 table function.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return deliver(sink.KindS3, &uploadFlags, sink.Options{}, runner.Options{Count: 1}, nil)
	},
}

func init() {
	uploadFlags.register(uploadCmd)
}
