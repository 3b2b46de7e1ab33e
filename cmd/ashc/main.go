// Command ashc drives the Ash lexer and parser over one or more source
// files and dumps their token stream or AST as JSON. It has no part in the
// core's contract (spec.md §1 places CLI, build system, and logging setup
// outside the core); it exists to exercise pkg/ash from the outside the
// way go.maqui.dev's own cmd/main.go did, rebuilt with
// th13vn-solast-go/cmd/solast's cobra-based command layout.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func init() {
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if info.Main.Version != "" && info.Main.Version != "(devel)" {
				version = info.Main.Version
			}
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs.revision":
					if len(setting.Value) >= 7 {
						gitCommit = setting.Value[:7]
					}
				case "vcs.time":
					buildTime = setting.Value
				}
			}
		}
	}
}

var (
	outputFile  string
	prettyPrint bool
	verbose     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ashc",
		Short: "ashc: Ash language front-end driver",
		Long: `ashc drives the Ash lexer and parser over source files and
dumps their token stream or AST as JSON.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildTime),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().BoolVarP(&prettyPrint, "pretty", "p", true, "pretty-print JSON output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level trace logging")

	rootCmd.AddCommand(newLexCmd())
	rootCmd.AddCommand(newParseCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func writeOutput(data []byte) error {
	var f *os.File
	if outputFile == "" {
		f = os.Stdout
	} else {
		var err error
		f, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer f.Close()
	}

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("cannot write output: %w", err)
	}
	if outputFile == "" {
		fmt.Fprintln(f)
	}
	return nil
}
