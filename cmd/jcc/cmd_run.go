package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stuforbes/java-compiler/config"
)

func newRunCmd() *cobra.Command {
	var flags compileFlags
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run <file.java> [args...]",
		Short: "Compile a source file and run it with java",
		Long: `Compile a source file into a temporary directory and run its main
method with the java launcher found on PATH.

Any additional arguments are passed to the Java program.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FindAndLoad(filepath.Dir(args[0]))
			if err != nil {
				return err
			}
			applyLogConfig(cfg)
			opts, err := flags.options(cfg)
			if err != nil {
				return err
			}
			cf, err := compileFile(args[0], opts)
			if err != nil {
				return err
			}

			dir, err := os.MkdirTemp("", "jcc-run-")
			if err != nil {
				return err
			}
			defer os.RemoveAll(dir)
			if _, err := writeClass(dir, cf); err != nil {
				return err
			}

			javaArgs := append([]string{"-cp", dir, cf.ClassName()}, args[1:]...)
			if verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "java %v\n", javaArgs)
			}
			java := exec.Command("java", javaArgs...)
			java.Stdin = os.Stdin
			java.Stdout = cmd.OutOrStdout()
			java.Stderr = cmd.ErrOrStderr()
			if err := java.Run(); err != nil {
				return fmt.Errorf("run %s: %w", cf.ClassName(), err)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&verbose, "print-command", false, "print the java command being executed")
	cmd.Flags().SetInterspersed(false)

	return cmd
}
