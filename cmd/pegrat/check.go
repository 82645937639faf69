package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kanreki/pegrat/abnf"
)

func init() {
	cmd := &cobra.Command{
		Use:     "check <grammar.abnf>",
		Short:   "Compile an ABNF grammar and report its production names",
		Example: `  pegrat check grammar.abnf`,
		Args:    cobra.ExactArgs(1),
		RunE:    runCheck,
	}
	rootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading grammar: %w", err)
	}
	g, err := abnf.Compile(string(src))
	if err != nil {
		return fmt.Errorf("compiling grammar: %w", err)
	}
	for _, name := range g.Names() {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
