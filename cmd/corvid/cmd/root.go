// Package cmd implements the corvid command-line driver: argument parsing,
// file reading, the -v trace and --vars config loading, and the single
// point where a diagnostic becomes the terminal banner and exit code 1.
// Grounded on the go-dws teacher's cobra-based driver (one root command
// that IS the run command, a persistent --verbose flag, RunE wired
// straight to the interpreter pipeline).
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/corvidlang/corvid/internal/builtins"
	"github.com/corvidlang/corvid/internal/diag"
	"github.com/corvidlang/corvid/internal/evaluator"
	"github.com/corvidlang/corvid/internal/lexer"
	"github.com/corvidlang/corvid/internal/parser"
	"github.com/corvidlang/corvid/internal/token"
)

// Root builds the corvid root command.
func Root() *cobra.Command {
	var verbose bool
	var varsFile string

	root := &cobra.Command{
		Use:           "corvid <source-file>",
		Short:         "Run a Corvid source file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			return run(c, args[0], verbose, varsFile)
		},
	}

	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the token list, the tree, and per-statement results")
	root.Flags().StringVarP(&varsFile, "vars", "c", "", "YAML file of name: value pairs preloaded into the global scope")

	return root
}

func run(c *cobra.Command, path string, verbose bool, varsFile string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(c.ErrOrStderr(), "corvid: %s\n", err)
		return err
	}

	tokens, err := lexer.Lex(string(source))
	if err != nil {
		diag.Report(c.ErrOrStderr(), string(source), err)
		return err
	}
	if verbose {
		printTokens(c.OutOrStdout(), tokens)
	}

	statements, err := parser.Build(tokens)
	if err != nil {
		diag.Report(c.ErrOrStderr(), string(source), err)
		return err
	}
	if verbose {
		fmt.Fprint(c.OutOrStdout(), token.Dump(statements))
	}

	host := builtins.NewHost(c.OutOrStdout(), c.InOrStdin())
	interp := evaluator.New(host)

	if varsFile != "" {
		if err := loadVars(interp, varsFile); err != nil {
			diag.Report(c.ErrOrStderr(), string(source), err)
			return err
		}
	}

	if verbose {
		for _, stmt := range statements {
			before := stmt.String()
			evaluated, err := interp.RunTrace([]*token.Token{stmt})
			if err != nil {
				diag.Report(c.ErrOrStderr(), string(source), err)
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "%s => %s\n", before, evaluated[0].String())
		}
		return nil
	}

	if err := interp.Run(statements); err != nil {
		diag.Report(c.ErrOrStderr(), string(source), err)
		return err
	}
	return nil
}

func printTokens(w io.Writer, tokens []*token.Token) {
	fmt.Fprintln(w, "<Tokens>")
	for _, t := range tokens {
		fmt.Fprintf(w, "  %s\n", t.String())
	}
}

// loadVars parses varsFile as a YAML mapping of name -> scalar and binds
// each entry into the interpreter's global scope before the script runs.
func loadVars(interp *evaluator.Interpreter, varsFile string) error {
	data, err := os.ReadFile(varsFile)
	if err != nil {
		return diag.New(diag.InvalidArgument, token.SourceLocation{}, "could not read vars file: %s", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return diag.New(diag.InvalidArgument, token.SourceLocation{}, "could not parse vars file: %s", err)
	}

	for name, v := range raw {
		kind, value, err := varKindAndValue(v)
		if err != nil {
			return diag.New(diag.InvalidArgument, token.SourceLocation{}, "vars file entry %q: %s", name, err)
		}
		interp.Scope.Bind(name, kind, value)
	}
	return nil
}

func varKindAndValue(v any) (token.Kind, any, error) {
	switch val := v.(type) {
	case int:
		return token.NUMBER, token.Int(int64(val)), nil
	case int64:
		return token.NUMBER, token.Int(val), nil
	case float64:
		return token.NUMBER, token.Float(val), nil
	case string:
		return token.STRING, val, nil
	case bool:
		return token.BOOLEAN, val, nil
	case nil:
		return token.NULL, nil, nil
	}
	return 0, nil, fmt.Errorf("unsupported value %v (%T)", v, v)
}
