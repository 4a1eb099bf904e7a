// Package builtins implements the language's built-in function table:
// print/println/toNumber/toString/toBoolean/getInput/getRandom/exit/
// getLength/sleep/getTime. Grounded on src/operations.py's
// BuiltinFunction/handle_*/builtin_function_handlers_table, restructured
// around an explicit Host (the teacher's evaluator threads an io.Writer
// through its REPL the same way — see alexisbouchez-rubygo/repl/repl.go)
// so print/getInput/exit are testable without touching the real console or
// process.
package builtins

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/corvidlang/corvid/internal/diag"
	"github.com/corvidlang/corvid/internal/token"
)

// Host carries the I/O and process-exit hooks a builtin call may need, so
// that exit and console access go through a seam instead of directly
// calling os.Exit / os.Stdin / os.Stdout.
type Host struct {
	Out  io.Writer
	In   *bufio.Reader
	Exit func(code int)
}

// NewHost returns a Host that writes to out, reads lines from in, and
// exits through os.Exit.
func NewHost(out io.Writer, in io.Reader) *Host {
	return &Host{Out: out, In: bufio.NewReader(in), Exit: os.Exit}
}

// Func is one built-in's handler: receives the already arity/type-checked
// argument tokens and the call site's location, returns a result value and
// kind.
type Func struct {
	Name          string
	ArgumentKinds [][]token.Kind
	Handler       func(h *Host, args []*token.Token, loc token.SourceLocation) (any, token.Kind, error)
}

// CheckArity reports a WrongArgumentCount diagnostic if len(args) doesn't
// match f's declared arity.
func (f *Func) CheckArity(args []*token.Token, loc token.SourceLocation) error {
	if len(args) != len(f.ArgumentKinds) {
		return diag.New(diag.WrongArgumentCount, loc, "%s expects %d argument(s), got %d", f.Name, len(f.ArgumentKinds), len(args))
	}
	return nil
}

// CheckTypes reports a TypeError diagnostic for the first argument whose
// kind isn't in f's declared set for that position.
func (f *Func) CheckTypes(args []*token.Token, loc token.SourceLocation) error {
	for i, arg := range args {
		if !token.KindIn(arg.Kind, f.ArgumentKinds[i]) {
			return diag.New(diag.TypeError, loc, "%s argument %d: %s not in supported type(s) %v", f.Name, i, arg.Kind, f.ArgumentKinds[i])
		}
	}
	return nil
}

// Call validates arity and argument types before invoking the handler, the
// same order BuiltinFunction.call enforces.
func (f *Func) Call(h *Host, args []*token.Token, loc token.SourceLocation) (any, token.Kind, error) {
	if err := f.CheckArity(args, loc); err != nil {
		return nil, 0, err
	}
	if err := f.CheckTypes(args, loc); err != nil {
		return nil, 0, err
	}
	return f.Handler(h, args, loc)
}

var table map[string]*Func

func init() {
	anyLiteral := []token.Kind{token.NUMBER, token.STRING, token.BOOLEAN, token.ARRAY, token.NULL}

	table = map[string]*Func{
		"print": {
			Name:          "print",
			ArgumentKinds: [][]token.Kind{anyLiteral},
			Handler: func(h *Host, args []*token.Token, loc token.SourceLocation) (any, token.Kind, error) {
				printValue(h.Out, args[0])
				return nil, token.NULL, nil
			},
		},
		"println": {
			Name:          "println",
			ArgumentKinds: [][]token.Kind{anyLiteral},
			Handler: func(h *Host, args []*token.Token, loc token.SourceLocation) (any, token.Kind, error) {
				printValue(h.Out, args[0])
				fmt.Fprintln(h.Out)
				return nil, token.NULL, nil
			},
		},
		"toNumber": {
			Name:          "toNumber",
			ArgumentKinds: [][]token.Kind{{token.NUMBER, token.STRING}},
			Handler: func(h *Host, args []*token.Token, loc token.SourceLocation) (any, token.Kind, error) {
				arg := args[0]
				if arg.Kind == token.NUMBER {
					return arg.Value, token.NUMBER, nil
				}
				f, err := strconv.ParseFloat(arg.Value.(string), 64)
				if err != nil {
					return nil, 0, diag.New(diag.InvalidArgument, loc, "toNumber: %q is not a valid number", arg.Value)
				}
				return token.Float(f), token.NUMBER, nil
			},
		},
		"toString": {
			Name:          "toString",
			ArgumentKinds: [][]token.Kind{anyLiteral},
			Handler: func(h *Host, args []*token.Token, loc token.SourceLocation) (any, token.Kind, error) {
				return toStringValue(args[0]), token.STRING, nil
			},
		},
		"toBoolean": {
			Name:          "toBoolean",
			ArgumentKinds: [][]token.Kind{{token.NUMBER, token.BOOLEAN}},
			Handler: func(h *Host, args []*token.Token, loc token.SourceLocation) (any, token.Kind, error) {
				arg := args[0]
				if arg.Kind == token.BOOLEAN {
					return arg.Value, token.BOOLEAN, nil
				}
				// Preserve the source language's inverted convention:
				// zero is true, everything else is false.
				return arg.Value.(token.Number).IsZero(), token.BOOLEAN, nil
			},
		},
		"getInput": {
			Name:          "getInput",
			ArgumentKinds: [][]token.Kind{},
			Handler: func(h *Host, args []*token.Token, loc token.SourceLocation) (any, token.Kind, error) {
				line, err := h.In.ReadString('\n')
				if err != nil && line == "" {
					return "", token.STRING, nil
				}
				return strings.TrimRight(line, "\r\n"), token.STRING, nil
			},
		},
		"getRandom": {
			Name:          "getRandom",
			ArgumentKinds: [][]token.Kind{},
			Handler: func(h *Host, args []*token.Token, loc token.SourceLocation) (any, token.Kind, error) {
				return token.Float(rand.Float64()), token.NUMBER, nil
			},
		},
		"exit": {
			Name:          "exit",
			ArgumentKinds: [][]token.Kind{{token.NUMBER}},
			Handler: func(h *Host, args []*token.Token, loc token.SourceLocation) (any, token.Kind, error) {
				code := int(args[0].Value.(token.Number).AsFloat())
				h.Exit(code)
				return nil, token.NULL, nil
			},
		},
		"getLength": {
			Name:          "getLength",
			ArgumentKinds: [][]token.Kind{{token.STRING, token.ARRAY}},
			Handler: func(h *Host, args []*token.Token, loc token.SourceLocation) (any, token.Kind, error) {
				arg := args[0]
				if arg.Kind == token.STRING {
					return token.Int(int64(len([]rune(arg.Value.(string))))), token.NUMBER, nil
				}
				return token.Int(int64(len(arg.Value.([]*token.Token)))), token.NUMBER, nil
			},
		},
		"sleep": {
			Name:          "sleep",
			ArgumentKinds: [][]token.Kind{{token.NUMBER}},
			Handler: func(h *Host, args []*token.Token, loc token.SourceLocation) (any, token.Kind, error) {
				secs := args[0].Value.(token.Number).AsFloat()
				time.Sleep(time.Duration(secs * float64(time.Second)))
				return nil, token.NULL, nil
			},
		},
		"getTime": {
			Name:          "getTime",
			ArgumentKinds: [][]token.Kind{},
			Handler: func(h *Host, args []*token.Token, loc token.SourceLocation) (any, token.Kind, error) {
				return token.Float(float64(time.Now().UnixNano()) / 1e9), token.NUMBER, nil
			},
		},
	}
}

// Lookup returns the builtin named name, if any.
func Lookup(name string) (*Func, bool) {
	f, ok := table[name]
	return f, ok
}

func printValue(w io.Writer, t *token.Token) {
	switch t.Kind {
	case token.ARRAY:
		fmt.Fprint(w, "[")
		elems := t.Value.([]*token.Token)
		for i, elem := range elems {
			printValue(w, elem)
			if i != len(elems)-1 {
				fmt.Fprint(w, ", ")
			}
		}
		fmt.Fprint(w, "]")
	case token.NULL:
		fmt.Fprint(w, "null")
	case token.BOOLEAN:
		fmt.Fprint(w, t.Value.(bool))
	default:
		fmt.Fprint(w, t.Value)
	}
}

func toStringValue(t *token.Token) string {
	switch t.Kind {
	case token.STRING:
		return t.Value.(string)
	case token.NULL:
		return "null"
	case token.BOOLEAN:
		if t.Value.(bool) {
			return "true"
		}
		return "false"
	case token.ARRAY:
		elems := t.Value.([]*token.Token)
		parts := make([]string, len(elems))
		for i, elem := range elems {
			parts[i] = toStringValue(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case token.NUMBER:
		return t.Value.(token.Number).String()
	}
	return fmt.Sprintf("%v", t.Value)
}
