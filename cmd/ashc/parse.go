package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	ash "github.com/ashlang/ash/pkg"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [files...]",
		Short: "Parse one or more Ash source files and dump their AST as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runParse,
	}
}

type fileAST struct {
	File  string `json:"file"`
	AST   any    `json:"ast,omitempty"`
	Error string `json:"error,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	results := make([]fileAST, len(args))

	var g errgroup.Group
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			buf, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			unit := ash.NewCompilationUnit(buf, path, nil)
			node, parseErr := unit.Parse()
			if parseErr != nil {
				results[i] = fileAST{File: path, Error: parseErr.Error()}
				return nil
			}
			results[i] = fileAST{File: path, AST: ash.NodeToJSON(node)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return writeJSON(results)
}
