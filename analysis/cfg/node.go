package cfg

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strings"
)

var errUnsupportedNodeConversion = errors.New("unsupported CFG node type conversion")

// Node is an atomic analyzable operation. The set of node kinds is closed:
// *Assign, *Compare, *Call, *Return, *Skip and *Param.
type Node interface {
	// Block is the block holding the node. Parameters belong to no block.
	Block() Block
	setBlock(Block)

	String() string

	isNode()
}

type baseNode struct {
	block Block
}

func (n *baseNode) Block() Block {
	return n.block
}

func (n *baseNode) setBlock(b Block) {
	if n.block != nil && n.block != b {
		panic(fmt.Errorf("%w: node already placed in %s", errUnsupportedNodeConversion, n.block))
	}
	n.block = b
}

func (*baseNode) isNode() {}

type (
	// Assign stores the value of an expression in a variable.
	Assign struct {
		baseNode
		Target string
		Value  ast.Expr
	}

	// Compare is a binary comparison, used as the condition of conditional
	// blocks.
	Compare struct {
		baseNode
		Left  ast.Expr
		Op    token.Token
		Right ast.Expr
	}

	// Call invokes an opaque routine. The result, if any, is stored in
	// Target. Calls may throw.
	Call struct {
		baseNode
		Target string
		Callee string
		Args   []ast.Expr
	}

	// Return leaves the routine, optionally with a value.
	Return struct {
		baseNode
		Value ast.Expr
	}

	// Skip does nothing.
	Skip struct {
		baseNode
	}

	// Param is a formal parameter of the routine, together with the
	// expressions it is declared to be less than.
	Param struct {
		baseNode
		Name     string
		LessThan []string
	}
)

// NewAssign creates the node `target = value`.
func NewAssign(target string, value ast.Expr) *Assign {
	return &Assign{Target: target, Value: value}
}

// NewCompare creates the node `left op right`. Only comparison operators
// are accepted.
func NewCompare(left ast.Expr, op token.Token, right ast.Expr) *Compare {
	switch op {
	case token.LSS, token.LEQ, token.GTR, token.GEQ, token.EQL, token.NEQ:
	default:
		panic(fmt.Errorf("%w: %s is not a comparison", errUnsupportedNodeConversion, op))
	}
	return &Compare{Left: left, Op: op, Right: right}
}

// NewCall creates the node `target = callee(args...)`. The target may be
// empty.
func NewCall(target, callee string, args ...ast.Expr) *Call {
	return &Call{Target: target, Callee: callee, Args: args}
}

// NewReturn creates a return node. The value may be nil.
func NewReturn(value ast.Expr) *Return {
	return &Return{Value: value}
}

func NewSkip() *Skip {
	return &Skip{}
}

// NewParam creates a formal parameter declared less than the given
// expressions.
func NewParam(name string, lessThan ...string) *Param {
	return &Param{Name: name, LessThan: lessThan}
}

func (n *Assign) String() string {
	return n.Target + " = " + types.ExprString(n.Value)
}

// ValueString is the canonical text of the assigned expression.
func (n *Assign) ValueString() string {
	return types.ExprString(n.Value)
}

func (n *Compare) String() string {
	return types.ExprString(n.Left) + " " + n.Op.String() + " " + types.ExprString(n.Right)
}

// Negate returns the operator testing the opposite outcome.
func (n *Compare) Negate() token.Token {
	switch n.Op {
	case token.LSS:
		return token.GEQ
	case token.LEQ:
		return token.GTR
	case token.GTR:
		return token.LEQ
	case token.GEQ:
		return token.LSS
	case token.EQL:
		return token.NEQ
	case token.NEQ:
		return token.EQL
	}
	panic(fmt.Errorf("%w: %s", errUnsupportedNodeConversion, n.Op))
}

func (n *Call) String() string {
	args := make([]string, 0, len(n.Args))
	for _, a := range n.Args {
		args = append(args, types.ExprString(a))
	}
	str := n.Callee + "(" + strings.Join(args, ", ") + ")"
	if n.Target != "" {
		str = n.Target + " = " + str
	}
	return str
}

func (n *Return) String() string {
	if n.Value == nil {
		return "return"
	}
	return "return " + types.ExprString(n.Value)
}

func (*Skip) String() string {
	return "skip"
}

func (n *Param) String() string {
	if len(n.LessThan) == 0 {
		return "param " + n.Name
	}
	return "param " + n.Name + " < { " + strings.Join(n.LessThan, ", ") + " }"
}
