package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stuforbes/java-compiler/catalog"
	"github.com/stuforbes/java-compiler/classfile"
	"github.com/stuforbes/java-compiler/compiler"
	"github.com/stuforbes/java-compiler/config"
	"github.com/stuforbes/java-compiler/format"
)

type compileFlags struct {
	outDir   string
	print    string
	major    uint16
	maxStack uint16
	catalogs []string
}

func (f *compileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.outDir, "out", "d", "", "directory for .class files (default from jcc.toml, else .)")
	cmd.Flags().Uint16Var(&f.major, "target", 0, "class file major version (default from jcc.toml, else 65)")
	cmd.Flags().Uint16Var(&f.maxStack, "max-stack", 0, "max_stack recorded for every method")
	cmd.Flags().StringSliceVar(&f.catalogs, "catalog", nil, "extra class catalog TOML files")
}

func newCompileCmd() *cobra.Command {
	var flags compileFlags

	cmd := &cobra.Command{
		Use:   "compile <file.java>...",
		Short: "Compile Java source files to .class files",
		Long: `Compile each source file into <ClassName>.class.

Settings are read from the nearest jcc.toml above the first source file;
command line flags override it.`,
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
			outDir := cfg.OutputDir()
			if flags.outDir != "" {
				outDir = flags.outDir
			}
			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("create %s: %w", outDir, err)
			}

			for _, file := range args {
				cf, err := compileFile(file, opts)
				if err != nil {
					return err
				}
				path, err := writeClass(outDir, cf)
				if err != nil {
					return err
				}
				if flags.print != "" {
					enc, ok := format.New(flags.print, cmd.OutOrStdout())
					if !ok {
						return fmt.Errorf("unknown format: %s (expected line, json or javap)", flags.print)
					}
					if err := enc.Encode(cf); err != nil {
						return fmt.Errorf("encode %s: %w", flags.print, err)
					}
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.print, "print", "p", "", "also print each class (line, json, javap)")

	return cmd
}

// options merges jcc.toml settings with the command line flags.
func (f *compileFlags) options(cfg *config.Config) ([]compiler.Option, error) {
	cat, err := catalog.Builtin()
	if err != nil {
		return nil, err
	}
	for _, path := range append(cfg.CatalogPaths(), f.catalogs...) {
		if err := cat.LoadFile(path); err != nil {
			return nil, err
		}
	}

	major, maxStack := cfg.ClassFile.MajorVersion, cfg.ClassFile.MaxStack
	if f.major != 0 {
		major = f.major
	}
	if f.maxStack != 0 {
		maxStack = f.maxStack
	}
	return []compiler.Option{
		compiler.WithCatalog(cat),
		compiler.WithVersion(major, cfg.ClassFile.MinorVersion),
		compiler.WithMaxStack(maxStack),
	}, nil
}

func compileFile(file string, opts []compiler.Option) (*classfile.ClassFile, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	base := filepath.Base(file)
	opts = append(opts[:len(opts):len(opts)], compiler.WithSourceFile(base))
	cf, err := compiler.Compile(src, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	if want := strings.TrimSuffix(base, ".java"); cf.AccessFlags.IsPublic() && cf.ClassName() != want {
		return nil, fmt.Errorf("%s: public class %s must be declared in a file named %s.java", file, cf.ClassName(), cf.ClassName())
	}
	return cf, nil
}

func writeClass(dir string, cf *classfile.ClassFile) (string, error) {
	data, err := classfile.Marshal(cf)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", cf.ClassName(), err)
	}
	path := filepath.Join(dir, cf.ClassName()+".class")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
