package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	ash "github.com/ashlang/ash/pkg"
)

func newLexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lex [files...]",
		Short: "Lex one or more Ash source files and dump their token streams as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runLex,
	}
}

type fileTokens struct {
	File   string       `json:"file"`
	Tokens []ash.Token  `json:"tokens,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// runLex lexes each file concurrently — spec.md §5 explicitly allows
// distinct Lexer instances to run in parallel over disjoint buffers — and
// reports the first fatal read error, the way the teacher's compiler.go
// used errgroup.Group to run its write and build goroutines concurrently
// and surface whichever failed first.
func runLex(cmd *cobra.Command, args []string) error {
	results := make([]fileTokens, len(args))

	var g errgroup.Group
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			buf, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			toks, lexErr := ash.Lex(buf, path, nil)
			if lexErr != nil {
				results[i] = fileTokens{File: path, Error: lexErr.Error()}
				return nil
			}
			results[i] = fileTokens{File: path, Tokens: toks}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return writeJSON(results)
}

func writeJSON(v any) error {
	var (
		out []byte
		err error
	)
	if prettyPrint {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return writeOutput(out)
}
