package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// PrintProgram renders a program (sequence of statements) as canonical Lox
// source. It is used for debugging (`lox parse file.lox`) and for testable
// property #3: pretty-printing then re-scanning/re-parsing the result must
// reproduce an equivalent AST. Every sub-expression is fully parenthesized
// so the printed form never depends on the parser's precedence table to
// recover the original grouping.
func PrintProgram(statements []Stmt) string {
	var sb strings.Builder
	for _, s := range statements {
		printStmt(&sb, s, 0)
	}
	return sb.String()
}

// PrintExpr renders a single expression as canonical Lox source.
func PrintExpr(e Expr) string {
	var sb strings.Builder
	printExpr(&sb, e)
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		sb.WriteString("    ")
	}
}

func printStmt(sb *strings.Builder, s Stmt, depth int) {
	indent(sb, depth)
	switch s := s.(type) {
	case *Block:
		sb.WriteString("{\n")
		for _, inner := range s.Statements {
			printStmt(sb, inner, depth+1)
		}
		indent(sb, depth)
		sb.WriteString("}\n")
	case *Class:
		fmt.Fprintf(sb, "class %s {\n", s.Name.Lexeme)
		for _, m := range s.Methods {
			indent(sb, depth+1)
			printFunction(sb, m, depth+1)
		}
		indent(sb, depth)
		sb.WriteString("}\n")
	case *Expression:
		sb.WriteString(PrintExpr(s.Expr))
		sb.WriteString(";\n")
	case *Function:
		sb.WriteString("fun ")
		printFunction(sb, s, depth)
	case *If:
		fmt.Fprintf(sb, "if (%s) ", PrintExpr(s.Condition))
		sb.WriteString("\n")
		printStmt(sb, s.Then, depth+1)
		if s.Else != nil {
			indent(sb, depth)
			sb.WriteString("else\n")
			printStmt(sb, s.Else, depth+1)
		}
	case *Print:
		fmt.Fprintf(sb, "print %s;\n", PrintExpr(s.Expr))
	case *Return:
		if s.Value == nil {
			sb.WriteString("return;\n")
		} else {
			fmt.Fprintf(sb, "return %s;\n", PrintExpr(s.Value))
		}
	case *Var:
		if s.Initializer == nil {
			fmt.Fprintf(sb, "var %s;\n", s.Name.Lexeme)
		} else {
			fmt.Fprintf(sb, "var %s = %s;\n", s.Name.Lexeme, PrintExpr(s.Initializer))
		}
	case *While:
		fmt.Fprintf(sb, "while (%s)\n", PrintExpr(s.Condition))
		printStmt(sb, s.Body, depth+1)
	default:
		panic(fmt.Sprintf("ast.PrintProgram: unhandled statement %T", s))
	}
}

func printFunction(sb *strings.Builder, fn *Function, depth int) {
	sb.WriteString(fn.Name.Lexeme)
	sb.WriteByte('(')
	for i, p := range fn.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Lexeme)
	}
	sb.WriteString(") {\n")
	for _, inner := range fn.Body {
		printStmt(sb, inner, depth+1)
	}
	indent(sb, depth)
	sb.WriteString("}\n")
}

func printExpr(sb *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *Assign:
		fmt.Fprintf(sb, "(%s = %s)", e.Name.Lexeme, PrintExpr(e.Value))
	case *Binary:
		fmt.Fprintf(sb, "(%s %s %s)", PrintExpr(e.Left), e.Operator.Lexeme, PrintExpr(e.Right))
	case *Call:
		sb.WriteString(PrintExpr(e.Callee))
		sb.WriteByte('(')
		for i, a := range e.Arguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(PrintExpr(a))
		}
		sb.WriteByte(')')
	case *Get:
		fmt.Fprintf(sb, "%s.%s", PrintExpr(e.Object), e.Name.Lexeme)
	case *Grouping:
		// Assign, Binary, Logical, Set and Unary already print their own
		// parentheses; adding another pair would grow on every round trip.
		switch e.Inner.(type) {
		case *Assign, *Binary, *Logical, *Set, *Unary:
			sb.WriteString(PrintExpr(e.Inner))
		default:
			fmt.Fprintf(sb, "(%s)", PrintExpr(e.Inner))
		}
	case *Literal:
		sb.WriteString(printLiteral(e))
	case *Logical:
		fmt.Fprintf(sb, "(%s %s %s)", PrintExpr(e.Left), e.Operator.Lexeme, PrintExpr(e.Right))
	case *Set:
		fmt.Fprintf(sb, "(%s.%s = %s)", PrintExpr(e.Object), e.Name.Lexeme, PrintExpr(e.Value))
	case *This:
		sb.WriteString("this")
	case *Unary:
		fmt.Fprintf(sb, "(%s%s)", e.Operator.Lexeme, PrintExpr(e.Right))
	case *Variable:
		sb.WriteString(e.Name.Lexeme)
	default:
		panic(fmt.Sprintf("ast.PrintExpr: unhandled expression %T", e))
	}
}

func printLiteral(l *Literal) string {
	switch l.Kind {
	case LitNil:
		return "nil"
	case LitBool:
		if l.Bool {
			return "true"
		}
		return "false"
	case LitNumber:
		return strconv.FormatFloat(l.Number, 'g', -1, 64)
	case LitString:
		// Lox strings have no escape sequences, so quoting is a literal wrap.
		return `"` + l.Str + `"`
	default:
		return "nil"
	}
}
