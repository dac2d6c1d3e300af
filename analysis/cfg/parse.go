package cfg

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ast/astutil"
)

var ErrParse = errors.New("cannot parse node")

// ParseNode parses the text of a single node written in Go syntax:
//
//	x = e        assignment (also x := e, x += e, x++)
//	r = f(a, b)  call with result, f(a, b) without
//	a < b        comparison (<, <=, >, >=, ==, !=)
//	return e     return, with or without value
//	skip         no-op
func ParseNode(text string) (Node, error) {
	if text == "skip" {
		return NewSkip(), nil
	}

	src := "package p\nfunc _() {\n" + text + "\n}\n"
	f, err := parser.ParseFile(token.NewFileSet(), "", src, 0)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrParse, text, err)
	}

	body := f.Decls[0].(*ast.FuncDecl).Body.List
	if len(body) != 1 {
		return nil, fmt.Errorf("%w %q: expected exactly one statement", ErrParse, text)
	}

	n, err := fromStmt(body[0])
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrParse, text, err)
	}
	return n, nil
}

// MustParseNode is like ParseNode but panics on failure.
func MustParseNode(text string) Node {
	n, err := ParseNode(text)
	if err != nil {
		panic(err)
	}
	return n
}

func fromStmt(stmt ast.Stmt) (Node, error) {
	switch stmt := stmt.(type) {
	case *ast.AssignStmt:
		if len(stmt.Lhs) != 1 || len(stmt.Rhs) != 1 {
			return nil, errors.New("only single assignments are supported")
		}
		target, ok := stmt.Lhs[0].(*ast.Ident)
		if !ok {
			return nil, fmt.Errorf("cannot assign to %s", types.ExprString(stmt.Lhs[0]))
		}

		rhs := astutil.Unparen(stmt.Rhs[0])
		switch stmt.Tok {
		case token.ASSIGN, token.DEFINE:
		case token.ADD_ASSIGN:
			rhs = &ast.BinaryExpr{X: ast.NewIdent(target.Name), Op: token.ADD, Y: rhs}
		case token.SUB_ASSIGN:
			rhs = &ast.BinaryExpr{X: ast.NewIdent(target.Name), Op: token.SUB, Y: rhs}
		case token.MUL_ASSIGN:
			rhs = &ast.BinaryExpr{X: ast.NewIdent(target.Name), Op: token.MUL, Y: rhs}
		default:
			return nil, fmt.Errorf("unsupported assignment %s", stmt.Tok)
		}

		if call, ok := rhs.(*ast.CallExpr); ok {
			return fromCall(target.Name, call)
		}
		return NewAssign(target.Name, rhs), nil

	case *ast.IncDecStmt:
		target, ok := stmt.X.(*ast.Ident)
		if !ok {
			return nil, fmt.Errorf("cannot update %s", types.ExprString(stmt.X))
		}
		op := token.ADD
		if stmt.Tok == token.DEC {
			op = token.SUB
		}
		return NewAssign(target.Name, &ast.BinaryExpr{
			X:  ast.NewIdent(target.Name),
			Op: op,
			Y:  &ast.BasicLit{Kind: token.INT, Value: "1"},
		}), nil

	case *ast.ExprStmt:
		switch x := astutil.Unparen(stmt.X).(type) {
		case *ast.CallExpr:
			return fromCall("", x)
		case *ast.BinaryExpr:
			switch x.Op {
			case token.LSS, token.LEQ, token.GTR, token.GEQ, token.EQL, token.NEQ:
				return NewCompare(astutil.Unparen(x.X), x.Op, astutil.Unparen(x.Y)), nil
			}
		}
		return nil, fmt.Errorf("expression %s is not a statement", types.ExprString(stmt.X))

	case *ast.ReturnStmt:
		switch len(stmt.Results) {
		case 0:
			return NewReturn(nil), nil
		case 1:
			return NewReturn(astutil.Unparen(stmt.Results[0])), nil
		}
		return nil, errors.New("multiple return values are not supported")
	}

	return nil, fmt.Errorf("unsupported statement %T", stmt)
}

func fromCall(target string, call *ast.CallExpr) (Node, error) {
	args := make([]ast.Expr, 0, len(call.Args))
	for _, a := range call.Args {
		args = append(args, astutil.Unparen(a))
	}
	return NewCall(target, types.ExprString(call.Fun), args...), nil
}
