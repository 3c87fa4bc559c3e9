package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stuforbes/java-compiler/classfile"
	"github.com/stuforbes/java-compiler/compiler"
	"github.com/stuforbes/java-compiler/format"
)

func newDumpCmd() *cobra.Command {
	var dumpFormat string

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Dump a .class file, or the class compiled from a .java file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			var cf *classfile.ClassFile
			var err error
			switch ext := filepath.Ext(filename); ext {
			case ".class":
				cf, err = classfile.ParseFile(filename)
				if err != nil {
					return fmt.Errorf("parse class file: %w", err)
				}
			case ".java":
				src, e := os.ReadFile(filename)
				if e != nil {
					return fmt.Errorf("read java file: %w", e)
				}
				cf, err = compiler.Compile(src, compiler.WithSourceFile(filepath.Base(filename)))
				if err != nil {
					return fmt.Errorf("compile java file: %w", err)
				}
			default:
				return fmt.Errorf("unsupported file extension: %s (expected .class or .java)", ext)
			}

			enc, ok := format.New(dumpFormat, cmd.OutOrStdout())
			if !ok {
				return fmt.Errorf("unknown format: %s (expected line, json or javap)", dumpFormat)
			}
			if err := enc.Encode(cf); err != nil {
				return fmt.Errorf("encode %s: %w", dumpFormat, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "javap", "output format (line, json, javap)")

	return cmd
}
