package interpreter

import (
	"fmt"
	"io"
	"time"

	"loxwalk/internal/ast"
	"loxwalk/internal/environment"
	"loxwalk/internal/errs"
	"loxwalk/internal/resolver"
	"loxwalk/internal/token"
)

// Interpreter executes an annotated AST (a program plus the resolver's
// Locals side table) against an environment chain, per spec.md §4.4.
type Interpreter struct {
	Globals *environment.Environment
	env     *environment.Environment
	locals  resolver.Locals
	sink    *errs.Sink
	out     io.Writer
}

// New creates an Interpreter with a fresh global environment pre-populated
// with the `clock` native function.
func New(sink *errs.Sink, out io.Writer) *Interpreter {
	globals := environment.New(nil)
	globals.Define("clock", &NativeFunction{
		Name:   "clock",
		Arity_: 0,
		Fn: func(args []Value) Value {
			return float64(time.Now().UnixNano()) / 1e9
		},
	})

	return &Interpreter{Globals: globals, env: globals, sink: sink, out: out}
}

// SetLocals merges a resolver pass's side table into the interpreter's
// accumulated table. Merging (not replacing) matters for the REPL: each
// line is resolved independently, but earlier lines' closures still carry
// AST nodes whose distances were recorded on a prior call.
func (in *Interpreter) SetLocals(locals resolver.Locals) {
	if in.locals == nil {
		in.locals = make(resolver.Locals, len(locals))
	}
	for expr, distance := range locals {
		in.locals[expr] = distance
	}
}

// Interpret runs a top-level statement sequence. A runtime error aborts
// the remainder of this call (the current file, or the current REPL line)
// and is reported to the sink; it does not panic out to the caller.
func (in *Interpreter) Interpret(statements []ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if rtErr, ok := r.(*errs.RuntimeError); ok {
				in.sink.ReportRuntime(rtErr)
				return
			}
			panic(r)
		}
	}()

	for _, stmt := range statements {
		in.execute(stmt)
	}
}

func (in *Interpreter) execute(stmt ast.Stmt) {
	switch stmt := stmt.(type) {
	case *ast.Block:
		in.executeBlock(stmt.Statements, environment.New(in.env))

	case *ast.Class:
		in.env.Define(stmt.Name.Lexeme, nil)

		methods := make(map[string]*Function, len(stmt.Methods))
		for _, m := range stmt.Methods {
			methods[m.Name.Lexeme] = &Function{
				Declaration:   m,
				Closure:       in.env,
				IsInitializer: m.Name.Lexeme == "init",
			}
		}

		class := &Class{Name: stmt.Name.Lexeme, Methods: methods}
		in.env.Assign(stmt.Name.Lexeme, class)

	case *ast.Expression:
		in.evaluate(stmt.Expr)

	case *ast.Function:
		fn := &Function{Declaration: stmt, Closure: in.env}
		in.env.Define(stmt.Name.Lexeme, fn)

	case *ast.If:
		if IsTruthy(in.evaluate(stmt.Condition)) {
			in.execute(stmt.Then)
		} else if stmt.Else != nil {
			in.execute(stmt.Else)
		}

	case *ast.Print:
		value := in.evaluate(stmt.Expr)
		fmt.Fprintln(in.out, Stringify(value))

	case *ast.Return:
		var value Value
		if stmt.Value != nil {
			value = in.evaluate(stmt.Value)
		}
		panic(returnSignal{value: value})

	case *ast.Var:
		var value Value
		if stmt.Initializer != nil {
			value = in.evaluate(stmt.Initializer)
		}
		in.env.Define(stmt.Name.Lexeme, value)

	case *ast.While:
		for IsTruthy(in.evaluate(stmt.Condition)) {
			in.execute(stmt.Body)
		}
	}
}

// executeBlock temporarily swaps in a child environment, executes the
// statements, and unconditionally restores the previous environment on
// every exit path (normal, runtime error, or return-unwinding), per
// spec.md §4.4's block-execution rule.
func (in *Interpreter) executeBlock(statements []ast.Stmt, blockEnv *environment.Environment) {
	previous := in.env
	in.env = blockEnv
	defer func() { in.env = previous }()

	for _, stmt := range statements {
		in.execute(stmt)
	}
}

func (in *Interpreter) evaluate(expr ast.Expr) Value {
	switch expr := expr.(type) {
	case *ast.Assign:
		value := in.evaluate(expr.Value)
		in.assignVariable(expr, expr.Name, value)
		return value

	case *ast.Binary:
		return in.evalBinary(expr)

	case *ast.Call:
		return in.evalCall(expr)

	case *ast.Get:
		object := in.evaluate(expr.Object)
		instance, ok := object.(*Instance)
		if !ok {
			in.runtimeError(expr.Name.Line, "Only instances have properties.")
		}
		if value, ok := instance.Fields[expr.Name.Lexeme]; ok {
			return value
		}
		if method := instance.Class.FindMethod(expr.Name.Lexeme); method != nil {
			return method.bind(instance)
		}
		in.runtimeError(expr.Name.Line, "Undefined property '"+expr.Name.Lexeme+"'.")
		return nil

	case *ast.Grouping:
		return in.evaluate(expr.Inner)

	case *ast.Literal:
		switch expr.Kind {
		case ast.LitNil:
			return nil
		case ast.LitBool:
			return expr.Bool
		case ast.LitNumber:
			return expr.Number
		case ast.LitString:
			return expr.Str
		}
		return nil

	case *ast.Logical:
		left := in.evaluate(expr.Left)
		if expr.Operator.Kind == token.Or {
			if IsTruthy(left) {
				return left
			}
		} else if !IsTruthy(left) {
			return left
		}
		return in.evaluate(expr.Right)

	case *ast.Set:
		object := in.evaluate(expr.Object)
		instance, ok := object.(*Instance)
		if !ok {
			in.runtimeError(expr.Name.Line, "Only instances have fields.")
		}
		value := in.evaluate(expr.Value)
		instance.Fields[expr.Name.Lexeme] = value
		return value

	case *ast.This:
		return in.lookUpVariable(expr.Keyword, expr)

	case *ast.Unary:
		right := in.evaluate(expr.Right)
		switch expr.Operator.Kind {
		case token.Bang:
			return !IsTruthy(right)
		case token.Minus:
			n := in.assertNumber(expr.Operator.Line, right)
			return -n
		}
		return nil

	case *ast.Variable:
		return in.lookUpVariable(expr.Name, expr)
	}

	panic(fmt.Sprintf("interpreter: unhandled expression %T", expr))
}

func (in *Interpreter) evalBinary(expr *ast.Binary) Value {
	left := in.evaluate(expr.Left)
	right := in.evaluate(expr.Right)
	line := expr.Operator.Line

	switch expr.Operator.Kind {
	case token.Plus:
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs
			}
		}
		if ln, ok := left.(float64); ok {
			if rn, ok := right.(float64); ok {
				return ln + rn
			}
		}
		in.runtimeError(line, "Operands must be two numbers or two strings.")
	case token.Minus:
		a, b := in.assertNumbers(line, left, right)
		return a - b
	case token.Star:
		a, b := in.assertNumbers(line, left, right)
		return a * b
	case token.Slash:
		a, b := in.assertNumbers(line, left, right)
		return a / b
	case token.Greater:
		a, b := in.assertNumbers(line, left, right)
		return a > b
	case token.GreaterEqual:
		a, b := in.assertNumbers(line, left, right)
		return a >= b
	case token.Less:
		a, b := in.assertNumbers(line, left, right)
		return a < b
	case token.LessEqual:
		a, b := in.assertNumbers(line, left, right)
		return a <= b
	case token.EqualEqual:
		return IsEqual(left, right)
	case token.BangEqual:
		return !IsEqual(left, right)
	}

	panic(fmt.Sprintf("interpreter: unhandled binary operator %s", expr.Operator.Kind))
}

func (in *Interpreter) evalCall(expr *ast.Call) Value {
	callee := in.evaluate(expr.Callee)

	args := make([]Value, len(expr.Arguments))
	for i, a := range expr.Arguments {
		args[i] = in.evaluate(a)
	}

	fn, ok := callee.(Callable)
	if !ok {
		in.runtimeError(expr.Paren.Line, "Can only call functions and classes.")
	}

	if len(args) != fn.Arity() {
		in.runtimeError(expr.Paren.Line, fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)))
	}

	return fn.Call(in, args)
}

func (in *Interpreter) lookUpVariable(name token.Token, expr ast.Expr) Value {
	if distance, ok := in.locals[expr]; ok {
		return in.env.GetAt(distance, name.Lexeme)
	}
	v, ok := in.Globals.Get(name.Lexeme)
	if !ok {
		in.runtimeError(name.Line, "Undefined variable '"+name.Lexeme+"'.")
	}
	return v
}

func (in *Interpreter) assignVariable(expr ast.Expr, name token.Token, value Value) {
	if distance, ok := in.locals[expr]; ok {
		in.env.AssignAt(distance, name.Lexeme, value)
		return
	}
	if !in.Globals.Assign(name.Lexeme, value) {
		in.runtimeError(name.Line, "Undefined variable '"+name.Lexeme+"'.")
	}
}

func (in *Interpreter) assertNumber(line int, v Value) float64 {
	n, ok := v.(float64)
	if !ok {
		in.runtimeError(line, "Operand must be a number.")
	}
	return n
}

func (in *Interpreter) assertNumbers(line int, a, b Value) (float64, float64) {
	an, aok := a.(float64)
	bn, bok := b.(float64)
	if !aok || !bok {
		in.runtimeError(line, "Operands must be numbers.")
	}
	return an, bn
}

func (in *Interpreter) runtimeError(line int, message string) {
	panic(&errs.RuntimeError{Message: message, Line: line})
}
