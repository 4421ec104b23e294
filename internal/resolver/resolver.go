// Package resolver implements the static scope-analysis pass of spec.md
// §4.3: for every variable-use expression it computes the lexical distance
// from the point of use to the enclosing scope that declares it, recording
// the result in a side table keyed by node identity (the Expr's pointer
// value) rather than structural equality.
package resolver

import (
	"loxwalk/internal/ast"
	"loxwalk/internal/errs"
	"loxwalk/internal/token"
)

type functionType int

const (
	fnNone functionType = iota
	fnFunction
	fnMethod
	fnInitializer
)

type classType int

const (
	classNone classType = iota
	classClass
)

// Locals is the resolver's output: distance to the declaring scope for
// every Variable, Assign, and This node that resolves locally. Absence of
// an entry means "resolve at the global environment" per spec.md §3.
type Locals map[ast.Expr]int

type scope map[string]bool

// Resolver performs one pre-execution tree walk over a parsed program.
type Resolver struct {
	sink    *errs.Sink
	locals  Locals
	scopes  []scope
	fnType  functionType
	clsType classType
}

func New(sink *errs.Sink) *Resolver {
	return &Resolver{sink: sink, locals: make(Locals)}
}

// Resolve walks every statement and returns the accumulated side table.
func (r *Resolver) Resolve(statements []ast.Stmt) Locals {
	r.resolveStmts(statements)
	return r.locals
}

func (r *Resolver) resolveStmts(statements []ast.Stmt) {
	for _, s := range statements {
		r.resolveStmt(s)
	}
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, make(scope)) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()

	case *ast.Class:
		enclosingClass := r.clsType
		r.clsType = classClass

		r.declare(s.Name)
		r.define(s.Name)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["this"] = true

		for _, method := range s.Methods {
			fnType := fnMethod
			if method.Name.Lexeme == "init" {
				fnType = fnInitializer
			}
			r.resolveFunction(method, fnType)
		}

		r.endScope()
		r.clsType = enclosingClass

	case *ast.Expression:
		r.resolveExpr(s.Expr)

	case *ast.Function:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, fnFunction)

	case *ast.If:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *ast.Print:
		r.resolveExpr(s.Expr)

	case *ast.Return:
		if r.fnType == fnNone {
			r.sink.ReportAt(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.fnType == fnInitializer {
				r.sink.ReportAt(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}

	case *ast.Var:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)

	case *ast.While:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)
	}
}

func (r *Resolver) resolveFunction(fn *ast.Function, fnType functionType) {
	enclosingFn := r.fnType
	r.fnType = fnType

	r.beginScope()
	for _, param := range fn.Parameters {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.fnType = enclosingFn
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)

	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpr(arg)
		}

	case *ast.Get:
		r.resolveExpr(e.Object)

	case *ast.Grouping:
		r.resolveExpr(e.Inner)

	case *ast.Literal:
		// nothing to resolve

	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ast.This:
		if r.clsType == classNone {
			r.sink.ReportAt(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)

	case *ast.Unary:
		r.resolveExpr(e.Right)

	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; declared && !defined {
				r.sink.ReportAt(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)
	}
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	sc := r.scopes[len(r.scopes)-1]
	if _, exists := sc[name.Lexeme]; exists {
		r.sink.ReportAt(name, "Already a variable with this name in this scope.")
	}
	sc[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
	// not found in any local scope: resolves dynamically at the global
	// environment, per spec.md §4.3.
}
