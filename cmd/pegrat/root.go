package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pegrat",
	Short: "Compile ABNF grammars and run them against input text",
	Long: `pegrat compiles RFC 5234/7405 ABNF source into a packrat grammar and
drives it against an input stream:
- parse reports the final matched index, or the AST the match produced.
- check compiles the grammar source and lists its production names.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
