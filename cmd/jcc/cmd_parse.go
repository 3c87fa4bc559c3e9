package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stuforbes/java-compiler/ast"
	"github.com/stuforbes/java-compiler/format"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file.java>",
		Short: "Parse a source file and dump the syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}
			class, err := ast.ParseSource(src)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			switch outputFormat {
			case "json":
				if err := format.NewASTJSONEncoder(cmd.OutOrStdout()).Encode(class); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			case "java":
				if err := format.NewJavaPrettyPrinter(cmd.OutOrStdout()).Print(class); err != nil {
					return fmt.Errorf("print java: %w", err)
				}
			default:
				return fmt.Errorf("unknown format: %s (expected json or java)", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, java)")

	return cmd
}
