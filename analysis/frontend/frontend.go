// Package frontend builds control-flow graphs from the SSA form of Go
// functions.
package frontend

import (
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"math"
	"strconv"

	"github.com/cs-au-dk/dflow/analysis/cfg"
	"github.com/cs-au-dk/dflow/config"

	uf "github.com/spakin/disjoint"
	"golang.org/x/tools/go/ssa"
)

var ErrUnsupported = errors.New("unsupported function")

// converter holds the state of translating a single function.
type converter struct {
	fn   *ssa.Function
	conf config.FrontendConfig
	g    *cfg.Cfg

	// names maps every SSA value to the variable holding it.
	names map[ssa.Value]string
	// inlined comparisons are emitted as block conditions only.
	inlined map[ssa.Value]bool
	// heads is the first CFG block of every SSA block.
	heads map[*ssa.BasicBlock]cfg.Block
	// fixups connect blocks to the heads of SSA successors once they exist.
	fixups []fixup
}

type fixup struct {
	from, to *ssa.BasicBlock
	set      func(cfg.Block)
}

// FromSSA converts fn into a CFG. Calls end their block and may throw
// the exception kinds given in conf to the exceptional exit. Panics go to
// the exceptional exit. Phi nodes become assignments on the incoming
// edges.
func FromSSA(fn *ssa.Function, conf config.FrontendConfig) (*cfg.Cfg, error) {
	if len(fn.Blocks) == 0 {
		return nil, fmt.Errorf("%w: %s has no body", ErrUnsupported, fn.Name())
	}

	c := &converter{
		fn:      fn,
		conf:    conf,
		inlined: make(map[ssa.Value]bool),
		heads:   make(map[*ssa.BasicBlock]cfg.Block),
	}
	c.names = copyClasses(fn)

	params := make([]*cfg.Param, 0, len(fn.Params))
	for _, p := range fn.Params {
		params = append(params, cfg.NewParam(c.names[p]))
	}
	c.g = cfg.New(fn.Name(), params...)

	for _, b := range fn.Blocks {
		if ifInstr, ok := b.Instrs[len(b.Instrs)-1].(*ssa.If); ok {
			if cmp, ok := ifInstr.Cond.(*ssa.BinOp); ok && isComparison(cmp.Op) &&
				cmp.Block() == b && len(*cmp.Referrers()) == 1 {
				c.inlined[cmp] = true
			}
		}
	}

	for _, b := range fn.Blocks {
		c.block(b)
	}
	for _, f := range c.fixups {
		f.set(c.edge(f.from, f.to))
	}
	c.g.Entry().SetSuccessor(c.heads[fn.Blocks[0]])

	if err := c.g.Validate(); err != nil {
		return nil, err
	}
	return c.g, nil
}

func (c *converter) link(from, to *ssa.BasicBlock, set func(cfg.Block)) {
	c.fixups = append(c.fixups, fixup{from, to, set})
}

// block translates the instructions of b into a chain of CFG blocks.
func (c *converter) block(b *ssa.BasicBlock) {
	var cur *cfg.RegularBlock
	var last *cfg.RegularBlock

	// emit appends n to the current block, starting a new one if needed.
	emit := func(n cfg.Node) {
		if cur == nil {
			cur = c.g.NewRegular()
			cur.SetLabel(c.label(b))
			if last != nil {
				last.SetSuccessor(cur)
			} else {
				c.heads[b] = cur
			}
		}
		cur.Append(n)
	}
	// end terminates the current block.
	end := func() {
		last, cur = cur, nil
	}
	// attach makes blk follow the instructions translated so far.
	attach := func(blk cfg.Block) {
		switch {
		case last == nil:
			c.heads[b] = blk
		default:
			last.SetSuccessor(blk)
		}
	}

	for _, instr := range b.Instrs {
		switch instr := instr.(type) {
		case *ssa.Phi:
			// Handled on the incoming edges.
		case *ssa.If:
			var cond *cfg.Compare
			if cmp, ok := instr.Cond.(*ssa.BinOp); ok && c.inlined[cmp] {
				cond = cfg.NewCompare(c.operand(cmp.X), cmp.Op, c.operand(cmp.Y))
			} else {
				cond = cfg.NewCompare(c.operand(instr.Cond), token.EQL, ast.NewIdent("true"))
			}
			cb := c.g.NewConditional(cond)
			cb.SetLabel(c.label(b))
			if cur != nil {
				end()
			}
			attach(cb)
			c.link(b, b.Succs[0], cb.SetThen)
			c.link(b, b.Succs[1], cb.SetElse)
			return
		case *ssa.Jump:
			if cur == nil && last == nil {
				emit(cfg.NewSkip())
			}
			blk := cur
			if blk == nil {
				blk = last
			}
			c.link(b, b.Succs[0], blk.SetSuccessor)
			return
		case *ssa.Return:
			var res ast.Expr
			switch len(instr.Results) {
			case 0:
			case 1:
				res = c.operand(instr.Results[0])
			default:
				elts := make([]ast.Expr, 0, len(instr.Results))
				for _, r := range instr.Results {
					elts = append(elts, c.operand(r))
				}
				res = &ast.CompositeLit{Elts: elts}
			}
			emit(cfg.NewReturn(res))
			cur.SetSuccessor(c.g.Exit())
			return
		case *ssa.Panic:
			emit(cfg.NewCall("", "panic", c.operand(instr.X)))
			cur.SetSuccessor(c.g.ExceptionalExit())
			return
		case *ssa.Call:
			if n := c.call(instr); n != nil {
				emit(n)
				if _, isCall := n.(*cfg.Call); isCall {
					for _, kind := range c.conf.CallExceptions {
						cur.AddExceptional(kind, c.g.ExceptionalExit())
					}
					end()
				}
			}
		case ssa.Value:
			if n := c.value(instr); n != nil {
				emit(n)
			}
		}
	}
	panic(fmt.Errorf("%w: block %s of %s has no terminator", ErrUnsupported, b, c.fn))
}

// edge returns the block entered when control flows from one SSA block to
// another. The phi nodes of the target are assigned on a block of their
// own.
func (c *converter) edge(from, to *ssa.BasicBlock) cfg.Block {
	var phis []*ssa.Phi
	for _, instr := range to.Instrs {
		if phi, ok := instr.(*ssa.Phi); ok && c.names[phi] == phi.Name() {
			phis = append(phis, phi)
		}
	}
	if len(phis) == 0 {
		return c.heads[to]
	}

	pred := -1
	for i, p := range to.Preds {
		if p == from {
			pred = i
			break
		}
	}
	if pred < 0 {
		panic(fmt.Errorf("%w: %s is not a predecessor of %s", ErrUnsupported, from, to))
	}

	// The moves are parallel. Values read from phis of the same block are
	// saved first.
	phiNames := make(map[string]bool, len(phis))
	for _, phi := range phis {
		phiNames[c.names[phi]] = true
	}
	var saves, moves []cfg.Node
	for _, phi := range phis {
		v := phi.Edges[pred]
		src := c.operand(v)
		if id, ok := src.(*ast.Ident); ok && phiNames[id.Name] && id.Name != c.names[phi] {
			tmp := "saved_" + id.Name
			saves = append(saves, cfg.NewAssign(tmp, ast.NewIdent(id.Name)))
			src = ast.NewIdent(tmp)
		}
		moves = append(moves, cfg.NewAssign(c.names[phi], src))
	}

	blk := c.g.NewRegular(append(saves, moves...)...)
	blk.SetLabel(c.label(from) + "→" + c.label(to))
	blk.SetSuccessor(c.heads[to])
	return blk
}

func (c *converter) label(b *ssa.BasicBlock) string {
	if b.Comment != "" {
		return strconv.Itoa(b.Index) + "." + b.Comment
	}
	return strconv.Itoa(b.Index)
}

// call translates a call instruction. Calls of builtins become
// assignments.
func (c *converter) call(instr *ssa.Call) cfg.Node {
	common := instr.Common()
	args := make([]ast.Expr, 0, len(common.Args))
	for _, a := range common.Args {
		args = append(args, c.operand(a))
	}

	target := ""
	if refs := instr.Referrers(); refs != nil && len(*refs) > 0 {
		target = c.names[instr]
	}

	if b, ok := common.Value.(*ssa.Builtin); ok {
		if target == "" {
			return nil
		}
		return cfg.NewAssign(target, &ast.CallExpr{Fun: ast.NewIdent(b.Name()), Args: args})
	}

	var callee string
	switch {
	case common.IsInvoke():
		callee = c.names[common.Value] + "." + common.Method.Name()
	case common.StaticCallee() != nil:
		callee = common.StaticCallee().Name()
	default:
		callee = c.names[common.Value]
	}
	return cfg.NewCall(target, callee, args...)
}

// value translates instructions defining a value. Members of a copy class
// other than its representative produce no node.
func (c *converter) value(v ssa.Value) cfg.Node {
	name := c.names[v]
	if name != v.Name() || c.inlined[v] {
		return nil
	}

	var e ast.Expr
	switch v := v.(type) {
	case *ssa.BinOp:
		e = &ast.BinaryExpr{X: c.operand(v.X), Op: v.Op, Y: c.operand(v.Y)}
	case *ssa.UnOp:
		if v.Op == token.MUL {
			e = &ast.StarExpr{X: c.operand(v.X)}
		} else {
			e = &ast.UnaryExpr{Op: v.Op, X: c.operand(v.X)}
		}
	case *ssa.Index:
		e = &ast.IndexExpr{X: c.operand(v.X), Index: c.operand(v.Index)}
	case *ssa.Lookup:
		e = &ast.IndexExpr{X: c.operand(v.X), Index: c.operand(v.Index)}
	case *ssa.Convert:
		e = &ast.CallExpr{Fun: ast.NewIdent(v.Type().String()), Args: []ast.Expr{c.operand(v.X)}}
	default:
		// Opaque values are named by their instruction kind.
		var args []ast.Expr
		if instr, ok := v.(ssa.Instruction); ok {
			for _, op := range instr.Operands(nil) {
				if op != nil && *op != nil {
					args = append(args, c.operand(*op))
				}
			}
		}
		e = &ast.CallExpr{Fun: ast.NewIdent(opName(v)), Args: args}
	}
	return cfg.NewAssign(name, e)
}

// operand renders v as an expression.
func (c *converter) operand(v ssa.Value) ast.Expr {
	cst, ok := v.(*ssa.Const)
	if !ok {
		if name, ok := c.names[v]; ok {
			return ast.NewIdent(name)
		}
		return ast.NewIdent(v.Name())
	}

	switch {
	case cst.Value == nil:
		return ast.NewIdent("nil")
	case cst.Value.Kind() == constant.Int:
		if k, exact := constant.Int64Val(cst.Value); exact && k != math.MinInt64 {
			lit := &ast.BasicLit{Kind: token.INT, Value: strconv.FormatInt(absInt(k), 10)}
			if k < 0 {
				return &ast.UnaryExpr{Op: token.SUB, X: lit}
			}
			return lit
		}
	case cst.Value.Kind() == constant.Bool:
		return ast.NewIdent(cst.Value.String())
	case cst.Value.Kind() == constant.String:
		return &ast.BasicLit{Kind: token.STRING, Value: cst.Value.ExactString()}
	}
	return &ast.CallExpr{Fun: ast.NewIdent("const"), Args: []ast.Expr{
		&ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(cst.Value.ExactString())},
	}}
}

func absInt(k int64) int64 {
	if k < 0 {
		return -k
	}
	return k
}

func isComparison(op token.Token) bool {
	switch op {
	case token.LSS, token.LEQ, token.GTR, token.GEQ, token.EQL, token.NEQ:
		return true
	}
	return false
}
