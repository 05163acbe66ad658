package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display sqlvalue version and build information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sqlvalue v%s (%s)\n", Version, GitCommit)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "built with %s\n", runtime.Version())
		},
	}
}
