package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stuforbes/java-compiler/scanner"
)

func newTokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens <file.java>",
		Short: "Print the tokens of a source file, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}
			tokens, err := scanner.Scan(src)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			out := cmd.OutOrStdout()
			for _, tok := range tokens {
				fmt.Fprintf(out, "%d\t%s\n", tok.Start, tok)
			}
			return nil
		},
	}
	return cmd
}
