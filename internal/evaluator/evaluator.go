// Package evaluator walks the statement tree produced by internal/parser,
// mutating each node into its result in place. Grounded on
// src/vm.py's VirtualMachine.interpret_statement/interpret_statements
// dispatch, restructured around a receiver (*Interpreter) the way the
// teacher structures its own tree-walker
// (alexisbouchez-rubygo/evaluator/evaluator.go's Eval(node, env)), with the
// scope stack and builtin host threaded through instead of a single
// chained Environment.
package evaluator

import (
	"github.com/corvidlang/corvid/internal/builtins"
	"github.com/corvidlang/corvid/internal/diag"
	"github.com/corvidlang/corvid/internal/ops"
	"github.com/corvidlang/corvid/internal/scope"
	"github.com/corvidlang/corvid/internal/token"
)

// Interpreter holds the mutable state a run of the program needs: the
// scope stack and the builtin I/O host.
type Interpreter struct {
	Scope *scope.Stack
	Host  *builtins.Host
}

// New returns an Interpreter with a fresh global scope.
func New(host *builtins.Host) *Interpreter {
	return &Interpreter{Scope: scope.New(), Host: host}
}

// breakSignal and continueSignal unwind the innermost enclosing WHILE's
// statement-list execution — the Go-idiomatic analogue of the teacher's
// object.BreakValue/object.NextValue sentinel objects, here carried as
// errors instead of distinguished by a wrapped Object type.
type breakSignal struct{}

func (breakSignal) Error() string { return "break" }

type continueSignal struct{}

func (continueSignal) Error() string { return "continue" }

// returnSignal unwinds an explicit RETURN statement out of a function
// body, carrying the already-evaluated literal to return.
type returnSignal struct{ value *token.Token }

func (returnSignal) Error() string { return "return" }

// Run executes statements against the interpreter's global scope. Each
// root statement is deep-copied first so repeated runs (and, within a
// single run, repeated loop iterations and function calls) start from a
// pristine tree.
func (in *Interpreter) Run(statements []*token.Token) error {
	_, err := in.RunTrace(statements)
	return err
}

// RunTrace behaves like Run but also returns the deep-copied, evaluated
// statements themselves, so a caller (the -v trace) can render each
// statement's post-evaluation result.
func (in *Interpreter) RunTrace(statements []*token.Token) ([]*token.Token, error) {
	clones := token.CloneStatements(statements)
	err := in.execStatements(clones)
	switch err.(type) {
	case breakSignal, continueSignal, returnSignal:
		// No enclosing WHILE/function call to unwind to: per spec.md §9's
		// "RETURN outside any function call" note and the matching
		// BREAK/CONTINUE design note, this simply stops execution of the
		// remaining top-level statements rather than failing the run.
		return clones, nil
	}
	return clones, err
}

// execStatements evaluates each statement in order, stopping and
// propagating the first break/continue/return signal or diagnostic.
func (in *Interpreter) execStatements(stmts []*token.Token) error {
	for _, stmt := range stmts {
		if _, err := in.eval(stmt); err != nil {
			return err
		}
	}
	return nil
}

var binaryKernels = map[token.Kind]func(any, token.Kind, any, token.Kind, token.SourceLocation) (any, token.Kind, error){
	token.PLUS:     ops.Add,
	token.MINUS:    ops.Subtract,
	token.MULTIPLY: ops.Multiply,
	token.DIVIDE:   ops.Divide,
	token.MODULO:   ops.Modulo,
}

var booleanKernels = map[token.Kind]func(any, token.Kind, any, token.Kind, token.SourceLocation) (bool, error){
	token.EQUAL:                 ops.Equal,
	token.NOT_EQUAL:             ops.NotEqual,
	token.GREATER_THAN:          ops.GreaterThan,
	token.LESS_THAN:             ops.LessThan,
	token.GREATER_THAN_OR_EQUAL: ops.GreaterThanOrEqual,
	token.LESS_THAN_OR_EQUAL:    ops.LessThanOrEqual,
	token.AND:                   ops.And,
	token.OR:                    ops.Or,
}

var compoundKernels = map[token.Kind]func(any, token.Kind, any, token.Kind, token.SourceLocation) (any, token.Kind, error){
	token.ASSIGNMENT_ADD: ops.Add,
	token.ASSIGNMENT_SUB: ops.Subtract,
	token.ASSIGNMENT_MUL: ops.Multiply,
	token.ASSIGNMENT_DIV: ops.Divide,
	token.ASSIGNMENT_MOD: ops.Modulo,
}

// eval dispatches on t.Kind, mutating t into its result and returning it.
func (in *Interpreter) eval(t *token.Token) (*token.Token, error) {
	switch {
	// An array literal built by the parser still carries its element nodes
	// in Children and falls through to evalArray below.
	case (token.IsLiteral(t.Kind) && !(t.Kind == token.ARRAY && t.Children != nil)) || t.Kind == token.IDENTIFIER:
		return t, nil
	case binaryKernels[t.Kind] != nil:
		return in.evalBinary(t)
	case booleanKernels[t.Kind] != nil:
		return in.evalBoolean(t)
	case compoundKernels[t.Kind] != nil:
		return in.evalCompoundAssignment(t)
	}

	switch t.Kind {
	case token.NOT:
		return in.evalNot(t)
	case token.INCREMENT, token.DECREMENT:
		return in.evalIncrDecr(t)
	case token.ASSIGNMENT:
		return in.evalAssignment(t)
	case token.IF:
		return in.evalIf(t)
	case token.WHILE:
		return in.evalWhile(t)
	case token.PARENTHESIS:
		return in.evalParenthesis(t)
	case token.FUNCTION_DECLARATION:
		return in.evalFunctionDeclaration(t)
	case token.FUNCTION_CALL:
		return in.evalFunctionCall(t)
	case token.RETURN:
		return in.evalReturn(t)
	case token.BREAK:
		return nil, breakSignal{}
	case token.CONTINUE:
		return nil, continueSignal{}
	case token.ARRAY_INDEXING:
		return in.evalArrayIndexing(t)
	case token.ARRAY:
		return in.evalArray(t)
	}

	return nil, diag.New(diag.UnsupportedToken, t.Loc, "cannot evaluate token kind %s", t.Kind)
}

// valueAndType resolves t to a (value, kind) pair: a literal reports
// itself, an IDENTIFIER fetches its symbol from the current scope, and a
// PARENTHESIS evaluates its single child and recurses into the result.
func (in *Interpreter) valueAndType(t *token.Token) (any, token.Kind, error) {
	switch t.Kind {
	case token.IDENTIFIER:
		sym, err := in.Scope.Lookup(t.Value.(string), t.Loc)
		if err != nil {
			return nil, 0, err
		}
		return sym.Value, sym.Kind, nil
	case token.PARENTHESIS:
		child, err := in.eval(t.Children[0])
		if err != nil {
			return nil, 0, err
		}
		return in.valueAndType(child)
	default:
		evaluated, err := in.eval(t)
		if err != nil {
			return nil, 0, err
		}
		return evaluated.Value, evaluated.Kind, nil
	}
}

func (in *Interpreter) evalBinary(t *token.Token) (*token.Token, error) {
	v1, k1, err := in.valueAndType(t.Children[0])
	if err != nil {
		return nil, err
	}
	v2, k2, err := in.valueAndType(t.Children[1])
	if err != nil {
		return nil, err
	}
	value, kind, err := binaryKernels[t.Kind](v1, k1, v2, k2, t.Loc)
	if err != nil {
		return nil, err
	}
	t.Kind, t.Value, t.Children = kind, value, nil
	return t, nil
}

func (in *Interpreter) evalBoolean(t *token.Token) (*token.Token, error) {
	v1, k1, err := in.valueAndType(t.Children[0])
	if err != nil {
		return nil, err
	}
	v2, k2, err := in.valueAndType(t.Children[1])
	if err != nil {
		return nil, err
	}
	result, err := booleanKernels[t.Kind](v1, k1, v2, k2, t.Loc)
	if err != nil {
		return nil, err
	}
	t.Kind, t.Value, t.Children = token.BOOLEAN, result, nil
	return t, nil
}

func (in *Interpreter) evalNot(t *token.Token) (*token.Token, error) {
	v, k, err := in.valueAndType(t.Children[0])
	if err != nil {
		return nil, err
	}
	result, err := ops.Not(v, k, t.Loc)
	if err != nil {
		return nil, err
	}
	t.Kind, t.Value, t.Children = token.BOOLEAN, result, nil
	return t, nil
}

// evalIncrDecr looks up the identifier, stores value+1/-1 back, and
// reports the pre-update value — post-increment semantics.
func (in *Interpreter) evalIncrDecr(t *token.Token) (*token.Token, error) {
	name := t.Children[0].Value.(string)
	sym, err := in.Scope.Lookup(name, t.Loc)
	if err != nil {
		return nil, err
	}
	preValue, preKind := sym.Value, sym.Kind

	var newValue any
	var newKind token.Kind
	if t.Kind == token.INCREMENT {
		newValue, newKind, err = ops.Increment(preValue, preKind, t.Loc)
	} else {
		newValue, newKind, err = ops.Decrement(preValue, preKind, t.Loc)
	}
	if err != nil {
		return nil, err
	}
	if err := in.Scope.Update(name, newValue, t.Loc); err != nil {
		return nil, err
	}

	t.Kind, t.Value, t.Children = preKind, preValue, nil
	_ = newKind
	return t, nil
}

// evalAssignment evaluates the RHS and binds the identifier in the current
// scope. The node reports the assigned value.
func (in *Interpreter) evalAssignment(t *token.Token) (*token.Token, error) {
	value, kind, err := in.valueAndType(t.Children[0])
	if err != nil {
		return nil, err
	}
	name := t.Children[1].Value.(string)
	in.Scope.Bind(name, kind, value)

	t.Kind, t.Value, t.Children = kind, value, nil
	return t, nil
}

// evalCompoundAssignment evaluates the RHS, applies the pure operator
// against the current symbol value, stores the result, and reports the
// pre-update symbol value (with the RHS's kind), per spec.md §4.3.
func (in *Interpreter) evalCompoundAssignment(t *token.Token) (*token.Token, error) {
	rhsValue, rhsKind, err := in.valueAndType(t.Children[0])
	if err != nil {
		return nil, err
	}
	name := t.Children[1].Value.(string)
	sym, err := in.Scope.Lookup(name, t.Loc)
	if err != nil {
		return nil, err
	}
	preValue := sym.Value

	newValue, _, err := compoundKernels[t.Kind](preValue, sym.Kind, rhsValue, rhsKind, t.Loc)
	if err != nil {
		return nil, err
	}
	if err := in.Scope.Update(name, newValue, t.Loc); err != nil {
		return nil, err
	}

	t.Kind, t.Value, t.Children = rhsKind, preValue, nil
	return t, nil
}

// evalIf deep-copies and evaluates the condition independently of the
// body, so a false branch's body is never touched.
func (in *Interpreter) evalIf(t *token.Token) (*token.Token, error) {
	condition := t.Children[1].Clone()
	v, kind, err := in.valueAndType(condition)
	if err != nil {
		return nil, err
	}
	if kind != token.BOOLEAN {
		return nil, diag.New(diag.TypeError, t.Loc, "if condition must be BOOLEAN, got %s", kind)
	}
	isTrue := v.(bool)

	if isTrue {
		if err := in.execStatements(token.CloneStatements(t.Children[0].Children)); err != nil {
			return nil, err
		}
		return t, nil
	}
	if len(t.Children) > 2 {
		elseBody := t.Children[2].Children[0]
		if err := in.execStatements(token.CloneStatements(elseBody.Children)); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// evalWhile re-evaluates a fresh copy of the condition on every iteration,
// and a fresh copy of the body's statements for every pass.
func (in *Interpreter) evalWhile(t *token.Token) (*token.Token, error) {
	for {
		condition := t.Children[1].Clone()
		v, kind, err := in.valueAndType(condition)
		if err != nil {
			return nil, err
		}
		if kind != token.BOOLEAN {
			return nil, diag.New(diag.TypeError, t.Loc, "while condition must be BOOLEAN, got %s", kind)
		}
		if !v.(bool) {
			return t, nil
		}

		err = in.execStatements(token.CloneStatements(t.Children[0].Children))
		if err != nil {
			if _, ok := err.(breakSignal); ok {
				return t, nil
			}
			if _, ok := err.(continueSignal); ok {
				continue
			}
			return nil, err
		}
	}
}

func (in *Interpreter) evalParenthesis(t *token.Token) (*token.Token, error) {
	child, err := in.eval(t.Children[0])
	if err != nil {
		return nil, err
	}
	t.Kind, t.Value, t.Children = child.Kind, child.Value, nil
	return t, nil
}

func (in *Interpreter) evalFunctionDeclaration(t *token.Token) (*token.Token, error) {
	decl := t.Value.(*token.FuncDecl)
	params := make([]string, len(decl.Params))
	for i, p := range decl.Params {
		params[i] = p.Value.(string)
	}
	in.Scope.BindFunction(decl.Name.Value.(string), &token.Function{
		Params: params,
		Body:   decl.Body.Children,
	})
	return t, nil
}

// evalFunctionCall converts each argument to a literal, then either
// invokes a builtin or a user function. A user function call pushes a new
// scope, binds parameters, executes every body statement except the
// first, evaluates the first as the return expression (spec.md §9's
// "return is the first statement" convention), then pops the scope — an
// explicit RETURN anywhere in the body short-circuits this via
// returnSignal.
func (in *Interpreter) evalFunctionCall(t *token.Token) (*token.Token, error) {
	call := t.Value.(*token.FuncCall)
	name := call.Name.Value.(string)

	args := make([]*token.Token, len(call.Args))
	for i, a := range call.Args {
		v, k, err := in.valueAndType(a)
		if err != nil {
			return nil, err
		}
		args[i] = &token.Token{Kind: k, Value: v, Loc: a.Loc}
	}

	if fn, ok := builtins.Lookup(name); ok {
		value, kind, err := fn.Call(in.Host, args, t.Loc)
		if err != nil {
			return nil, err
		}
		t.Kind, t.Value, t.Children = kind, value, nil
		return t, nil
	}

	sym, err := in.Scope.Lookup(name, t.Loc)
	if err != nil {
		return nil, err
	}
	fn, ok := sym.Value.(*token.Function)
	if !ok {
		return nil, diag.New(diag.TypeError, t.Loc, "%q is not a function", name)
	}
	if len(args) != len(fn.Params) {
		return nil, diag.New(diag.WrongArgumentCount, t.Loc, "%s expects %d argument(s), got %d", name, len(fn.Params), len(args))
	}

	in.Scope.Push()
	for i, p := range fn.Params {
		in.Scope.Bind(p, args[i].Kind, args[i].Value)
	}

	body := token.CloneStatements(fn.Body)
	if len(body) == 0 {
		return nil, diag.New(diag.MissingReturnStatement, t.Loc, "%s has an empty body", name)
	}

	var result *token.Token
	err = in.execStatements(body[1:])
	if err != nil {
		if rs, ok := err.(returnSignal); ok {
			result = rs.value
		} else {
			in.Scope.Pop()
			return nil, err
		}
	}
	if result == nil {
		result, err = in.eval(body[0])
		if err != nil {
			rs, ok := err.(returnSignal)
			if !ok {
				in.Scope.Pop()
				return nil, err
			}
			result = rs.value
		}
		result, err = in.literalise(result)
		if err != nil {
			in.Scope.Pop()
			return nil, err
		}
	}
	in.Scope.Pop()

	t.Kind, t.Value, t.Children = result.Kind, result.Value, nil
	return t, nil
}

// evalReturn resolves its child to a literal (recursively literal-ising
// array elements), then unwinds the enclosing function call via
// returnSignal.
func (in *Interpreter) evalReturn(t *token.Token) (*token.Token, error) {
	result, err := in.literaliseNode(t.Children[0])
	if err != nil {
		return nil, err
	}
	return nil, returnSignal{value: result}
}

// literaliseNode evaluates t and then literalises it, for RETURN's operand
// and a function's first-statement return expression.
func (in *Interpreter) literaliseNode(t *token.Token) (*token.Token, error) {
	evaluated, err := in.eval(t)
	if err != nil {
		return nil, err
	}
	return in.literalise(evaluated)
}

// literalise resolves t to a concrete literal, fetching an IDENTIFIER's
// symbol and recursing into ARRAY elements.
func (in *Interpreter) literalise(t *token.Token) (*token.Token, error) {
	if t.Kind == token.IDENTIFIER {
		v, k, err := in.valueAndType(t)
		if err != nil {
			return nil, err
		}
		return &token.Token{Kind: k, Value: v, Loc: t.Loc}, nil
	}
	if t.Kind == token.ARRAY {
		elems := t.Value.([]*token.Token)
		out := make([]*token.Token, len(elems))
		for i, e := range elems {
			lit, err := in.literalise(e)
			if err != nil {
				return nil, err
			}
			out[i] = lit
		}
		t.Value, t.Children = out, nil
		return t, nil
	}
	return t, nil
}

func (in *Interpreter) evalArrayIndexing(t *token.Token) (*token.Token, error) {
	arrValue, arrKind, err := in.valueAndType(t.Children[0])
	if err != nil {
		return nil, err
	}
	idxValue, idxKind, err := in.valueAndType(t.Children[1])
	if err != nil {
		return nil, err
	}
	elem, err := ops.ArrayIndex(arrValue, arrKind, idxValue, idxKind, t.Loc)
	if err != nil {
		return nil, err
	}
	t.Kind, t.Value, t.Children = elem.Kind, elem.Value, nil
	return t, nil
}

// evalArray visits every element, resolving identifiers to literals in
// place, and sets the node's Value to the resolved element slice.
func (in *Interpreter) evalArray(t *token.Token) (*token.Token, error) {
	elems := t.Children
	out := make([]*token.Token, len(elems))
	for i, e := range elems {
		if e.Kind == token.IDENTIFIER {
			v, k, err := in.valueAndType(e)
			if err != nil {
				return nil, err
			}
			out[i] = &token.Token{Kind: k, Value: v, Loc: e.Loc}
			continue
		}
		evaluated, err := in.eval(e)
		if err != nil {
			return nil, err
		}
		out[i] = evaluated
	}
	t.Value, t.Children = out, out
	return t, nil
}
