package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kanreki/pegrat/abnf"
	"github.com/kanreki/pegrat/ast"
	"github.com/kanreki/pegrat/packrat"
)

var parseFlags = struct {
	source *string
	ignore *string
	format *string
	debug  *bool
}{}

const (
	outputFormatText = "text"
	outputFormatTree = "tree"
)

func init() {
	cmd := &cobra.Command{
		Use:     "parse <grammar.abnf> <goal>",
		Short:   "Parse a text stream against one production of an ABNF grammar",
		Example: `  cat input.txt | pegrat parse grammar.abnf document`,
		Args:    cobra.ExactArgs(2),
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.ignore = cmd.Flags().String("ignore", "", "comma-separated production names to treat as the ignore set")
	parseFlags.format = cmd.Flags().StringP("format", "f", outputFormatText, "output format: one of text|tree")
	parseFlags.debug = cmd.Flags().Bool("debug", false, "trace every successful match to stderr")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if *parseFlags.format != outputFormatText && *parseFlags.format != outputFormatTree {
		return fmt.Errorf("invalid output format: %v", *parseFlags.format)
	}

	grmSrc, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading grammar: %w", err)
	}
	goal := args[1]

	g, err := abnf.Compile(string(grmSrc))
	if err != nil {
		return fmt.Errorf("compiling grammar: %w", err)
	}

	input, err := readInput(*parseFlags.source)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	var ignore []string
	if *parseFlags.ignore != "" {
		ignore = strings.Split(*parseFlags.ignore, ",")
	}
	opts := []packrat.Option{packrat.WithIgnore(ignore...)}
	if *parseFlags.debug {
		opts = append(opts, packrat.WithDebug(cmd.ErrOrStderr()))
	}
	eng := packrat.NewEngine(g, opts...)

	end, err := eng.Parse(goal, input, 0)
	if err != nil {
		return err
	}
	if end == packrat.NoMatch {
		return fmt.Errorf("no match: farthest position reached was %d", eng.FarthestIndex())
	}

	switch *parseFlags.format {
	case outputFormatTree:
		root := ast.Build(eng, goal, end, ast.Options{Ignore: ignore})
		printTree(cmd.OutOrStdout(), root, 0)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "matched [0, %d) of %d bytes\n", end, len(input))
	}
	return nil
}

func readInput(path string) (string, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func printTree(w io.Writer, n *ast.Node, depth int) {
	fmt.Fprintf(w, "%s%s [%d,%d) %q\n", strings.Repeat("  ", depth), n.Name, n.Lo, n.Hi, truncate(n.Text(), 40))
	for _, child := range n.Children("") {
		printTree(w, child, depth+1)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
