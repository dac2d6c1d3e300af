package main

import (
	"fmt"
	"go/token"
	"go/types"
	"log"
	"time"

	"github.com/cs-au-dk/dflow/analysis/cfg"
	"github.com/cs-au-dk/dflow/analysis/lessthan"
	"github.com/cs-au-dk/dflow/analysis/valuerange"
	"github.com/cs-au-dk/dflow/config"
	"github.com/cs-au-dk/dflow/utils"
)

// pipeline runs the analyses over a single routine.
type pipeline struct {
	g    *cfg.Cfg
	conf config.Config
}

func (p pipeline) lessThan() *lessthan.Result {
	log.Println("Starting less-than analysis...")
	defer utils.TimeTrack(time.Now(), "Less-than analysis")

	res := lessthan.Analyze(p.g)
	opts.OnVerbose(func() {
		log.Printf("Less-than analysis converged after %d block visits", res.Iterations())
	})
	return res
}

func (p pipeline) valueRange() *valuerange.Result {
	log.Println("Starting value-range analysis...")
	defer utils.TimeTrack(time.Now(), "Value-range analysis")

	res := valuerange.Analyze(p.g, p.conf.ValueRange)
	opts.OnVerbose(func() {
		log.Printf("Value-range analysis converged after %d block visits", res.Iterations())
	})
	return res
}

// run analyzes the routine and answers query at its exit, if given.
func (p pipeline) run(query string) (*report, error) {
	lt, vr := p.lessThan(), p.valueRange()

	rep := &report{Name: p.g.Name()}
	reached := make(map[cfg.Block]bool)
	for _, b := range p.g.Blocks() {
		reached[b] = true
		br := blockReport{Block: b.Label()}
		if s, ok := lt.StoreBefore(b); ok {
			br.LessThan = &s
		}
		if s, ok := vr.StoreBefore(b); ok {
			br.ValueRange = &s
		}
		rep.Blocks = append(rep.Blocks, br)
	}
	for _, b := range p.g.AllBlocks() {
		if !reached[b] {
			rep.Unreachable = append(rep.Unreachable, b.Label())
		}
	}

	if query == "" {
		return rep, nil
	}
	verdict, err := answer(lessthan.Checker{Facts: lt, Oracle: vr}, query)
	if err != nil {
		return nil, err
	}
	rep.Query = &queryReport{Query: query, Verdict: verdict}
	return rep, nil
}

// answer decides an inequality at the exit of the routine.
func answer(c lessthan.Checker, query string) (string, error) {
	n, err := cfg.ParseNode(query)
	if err != nil {
		return "", err
	}
	cmp, ok := n.(*cfg.Compare)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a comparison", cfg.ErrParse, query)
	}

	l, r := cmp.Left, cmp.Right
	switch cmp.Op {
	case token.GTR, token.GEQ:
		l, r = r, l
	}
	left, right := types.ExprString(l), types.ExprString(r)

	switch cmp.Op {
	case token.LSS, token.GTR:
		return c.Decide(left, right, nil).String(), nil
	case token.LEQ, token.GEQ:
		if c.IsLessThanOrEqual(left, right, nil) {
			return lessthan.Proven.String(), nil
		}
		return lessthan.Unprovable.String(), nil
	}
	return "", fmt.Errorf("%w: only <, <=, > and >= can be queried, got %q", cfg.ErrParse, query)
}
