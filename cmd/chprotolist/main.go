package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Passed by "go build -ldflags" for the version command
	commit  string
	date    string
	version string

	envFile     string
	logLevelInt int
	logLevel    zerolog.Level = 1
	// The root command of our program
	rootCmd = &cobra.Command{
		Use:   "chprotolist",
		Short: "Build clickhouse_protolist protobuf rows and ship them to ClickHouse.",
		Long: `Builds Record rows of the clickhouse_protolist.v1 schema, validates them and frames them
		for the ClickHouse Protobuf (length delimited rows) or ProtobufList (Envelope) input formats.
		Payloads can be written to a file, inserted into ClickHouse, archived in Postgres,
		published to Kafka or RabbitMQ, or uploaded to S3.`,
		SilenceUsage: true,
	}
)

// Go, go, go
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Bind our args to the command
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "The env file to read.")
	rootCmd.PersistentFlags().IntVar(&logLevelInt, "log", 1, "The logging level to use.")

	rootCmd.AddCommand(encodeCmd, insertCmd, storeCmd, publishCmd, uploadCmd, decodeCmd, schemaCmd, versionCmd)
}

func initConfig() {
	setLogLevel()

	err := godotenv.Load(envFile)
	if err != nil {
		slog.Info("failed to load env file", "error", err.Error())
	}
}

func setLogLevel() {
	logLevel = zerolog.Level(logLevelInt)
	zerolog.SetGlobalLevel(logLevel)
}
