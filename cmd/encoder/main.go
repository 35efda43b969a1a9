// Command encoder reads toml-test tagged JSON from stdin and writes TOML.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/maurice/tomltree"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "encoder",
		Short:         "Encode tagged JSON from stdin as TOML",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := toml.ReadTaggedJSON(cmd.InOrStdin())
			if err != nil {
				cmd.PrintErrln(err)
				return err
			}
			return toml.WriteTOML(cmd.OutOrStdout(), t)
		},
	}
}
