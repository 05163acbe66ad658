package cli

import (
	"github.com/spf13/cobra"
)

func newConvertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert documents into values and print them",
		Long: `Read EDN, YAML or JSON documents from a file (or stdin) and print the
dynamic value each one converts to. Multi-document input prints one value
per document.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFrom(cmd.Context())

			var path string
			if len(args) == 1 {
				path = args[0]
			}
			data, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			values, err := decodeValues(e.cfg, data)
			if err != nil {
				return err
			}
			e.logger.Debug("converted input", "documents", len(values), "format", e.cfg.InputFormat)

			for _, v := range values {
				if err := writeValue(cmd, e.cfg, v); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
