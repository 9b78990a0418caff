package main

import (
	"fmt"

	"github.com/metdatasystem/chprotolist/internal/payload"
	"github.com/metdatasystem/chprotolist/internal/sink"
	"github.com/metdatasystem/chprotolist/pkg/protolist"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	decodeFilename string
	decodeType     string
	delimited      bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode, validate and print a payload file",
	Long: `Reads a file written by encode (or --dump), validates every message and prints it as JSON.
	Records are read as length delimited frames and an Envelope as a single message, unless --delimited is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, ok := protolist.Lookup(decodeType)
		if !ok {
			return fmt.Errorf("unknown message type %q", decodeType)
		}
		if !cmd.Flags().Changed("delimited") {
			delimited = typ.Name() != "Envelope"
		}

		r, err := sink.OpenFile(decodeFilename)
		if err != nil {
			log.Error().Err(err).Msg("failed to open file")
			return err
		}
		defer r.Close()

		var total, invalid int
		out := cmd.OutOrStdout()

		err = payload.Decode(r, typ, delimited, func(m protolist.Message) error {
			total++
			if err := m.ValidateAll(); err != nil {
				invalid++
				log.Warn().Err(err).Int("message", total).Msg("validation failed")
			}

			b, err := protolist.ToJSON(m)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(b))
			return err
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to decode file")
			return err
		}

		log.Info().Int("messages", total).Int("invalid", invalid).Msg("decoded")
		if invalid > 0 {
			return fmt.Errorf("%d of %d messages failed validation", invalid, total)
		}
		return nil
	},
}

func init() {
	decodeCmd.Flags().StringVarP(&decodeFilename, "filename", "f", "protoBytes.bin", "The file to read.")
	decodeCmd.Flags().StringVarP(&decodeType, "type", "t", "Record", "The message type: Record or Envelope.")
	decodeCmd.Flags().BoolVar(&delimited, "delimited", true, "Read length delimited frames.")
}
