package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/stuforbes/java-compiler/config"
)

var (
	verbosity int
	logFile   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "jcc",
		Short:        "A small Java to JVM bytecode compiler",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(verbosity, logFile)
		},
	}
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(newCompileCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newParseCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func configureLogging(level int, file string) {
	var path *string
	if file != "" {
		path = &file
	}
	commonlog.Configure(level, path)
}

// applyLogConfig lets the [log] section of jcc.toml stand in for flags that
// were not given.
func applyLogConfig(cfg *config.Config) {
	level, file := verbosity, logFile
	if level == 0 {
		level = cfg.Log.Verbosity
	}
	if file == "" {
		file = cfg.Log.File
	}
	if level != verbosity || file != logFile {
		configureLogging(level, file)
	}
}
