// Command decoder reads TOML and writes it as JSON. With --typed (the
// default) the output is the tagged form used by toml-test.
package main

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/maurice/tomltree"
)

var errInvalid = errors.New("invalid TOML")

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var (
		version string
		indent  int
		typed   bool
	)
	cmd := &cobra.Command{
		Use:           "decoder [file]",
		Short:         "Decode TOML from a file or stdin into JSON",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := toml.ParseVersion(version)
			if err != nil {
				cmd.PrintErrln(err)
				return err
			}
			data, err := readInput(cmd, args)
			if err != nil {
				cmd.PrintErrln("error reading input:", err)
				return err
			}
			res, err := toml.Parse(data, toml.WithVersion(v))
			if err != nil {
				cmd.PrintErrln(err)
				return err
			}
			if res.HasErrors() {
				for _, e := range res.Errors() {
					cmd.PrintErrln(e.Position.String() + ": " + e.Message)
				}
				return errInvalid
			}
			opts := []toml.JSONOption{toml.JSONIndent(indent)}
			if typed {
				opts = append(opts,
					toml.JSONValuesAsObjectsWithType(),
					toml.JSONAllValuesAsStrings(),
					toml.JSONExplicitSeconds())
			}
			return toml.WriteJSON(cmd.OutOrStdout(), res.Table, opts...)
		},
	}
	cmd.Flags().StringVar(&version, "toml-version", "head", "TOML version to parse against (0.4, 0.5, 1.0, 1.1, latest, head)")
	cmd.Flags().IntVar(&indent, "indent", 2, "spaces per indentation level, 0 for compact output")
	cmd.Flags().BoolVar(&typed, "typed", true, "write scalars as {\"type\", \"value\"} objects")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 1 {
		return os.ReadFile(args[0])
	}
	return io.ReadAll(cmd.InOrStdin())
}
