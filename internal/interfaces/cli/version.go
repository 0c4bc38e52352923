package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "docfacts %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit:     %s\n", GitCommit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:      %s\n", BuildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "  go version: %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
