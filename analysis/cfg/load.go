package cfg

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

var ErrLoad = errors.New("cannot load CFG description")

// A CFG description lists the blocks of a routine by id. The ids entry,
// exit and exceptional-exit are reserved for the special blocks.
//
//	name: count
//	params:
//	  - name: n
//	    lessthan: [len]
//	blocks:
//	  - id: entry
//	    next: init
//	  - id: init
//	    nodes: ["i = 0"]
//	    next: loop
//	  - id: loop
//	    cond: i < n
//	    then: body
//	    else: exit
//	  - id: body
//	    nodes: ["r = get(i)", "i = i + 1"]
//	    next: loop
//	    throws: {IOException: exceptional-exit}
type description struct {
	Name   string      `yaml:"name"`
	Params []paramDesc `yaml:"params"`
	Blocks []blockDesc `yaml:"blocks"`
}

type paramDesc struct {
	Name     string   `yaml:"name"`
	LessThan []string `yaml:"lessthan"`
}

type blockDesc struct {
	ID     string            `yaml:"id"`
	Kind   string            `yaml:"kind"`
	Nodes  []string          `yaml:"nodes"`
	Cond   string            `yaml:"cond"`
	Next   string            `yaml:"next"`
	Then   string            `yaml:"then"`
	Else   string            `yaml:"else"`
	Throws map[string]string `yaml:"throws"`
}

// LoadFile reads a YAML CFG description from a file.
func LoadFile(path string) (*Cfg, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	g, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Load builds a CFG from a YAML description. The resulting CFG is
// validated.
func Load(data []byte) (*Cfg, error) {
	var desc description
	if err := yaml.UnmarshalStrict(data, &desc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	params := make([]*Param, 0, len(desc.Params))
	for _, p := range desc.Params {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: parameter without a name", ErrLoad)
		}
		params = append(params, NewParam(p.Name, p.LessThan...))
	}

	g := New(desc.Name, params...)
	byID := map[string]Block{
		Entry.String():           g.entry,
		Exit.String():            g.exit,
		ExceptionalExit.String(): g.exceptionalExit,
	}

	// Create blocks first, so that edges may refer forward.
	for _, bd := range desc.Blocks {
		if bd.ID == "" {
			return nil, fmt.Errorf("%w: block without an id", ErrLoad)
		}
		if _, special := byID[bd.ID]; special {
			if bd.isSpecial() {
				continue
			}
			return nil, fmt.Errorf("%w: block %q is duplicated or reserved", ErrLoad, bd.ID)
		}

		var b Block
		switch bd.kind() {
		case "regular":
			nodes := make([]Node, 0, len(bd.Nodes))
			for _, text := range bd.Nodes {
				n, err := ParseNode(text)
				if err != nil {
					return nil, fmt.Errorf("%w: block %q: %v", ErrLoad, bd.ID, err)
				}
				nodes = append(nodes, n)
			}
			rb := g.NewRegular(nodes...)
			rb.SetLabel(bd.ID)
			b = rb
		case "conditional":
			cond, err := ParseNode(bd.Cond)
			if err != nil {
				return nil, fmt.Errorf("%w: block %q: %v", ErrLoad, bd.ID, err)
			}
			cb := g.NewConditional(cond)
			cb.SetLabel(bd.ID)
			b = cb
		default:
			return nil, fmt.Errorf("%w: block %q has unknown kind %q", ErrLoad, bd.ID, bd.Kind)
		}
		byID[bd.ID] = b
	}

	lookup := func(from, id string) (Block, error) {
		if b, ok := byID[id]; ok {
			return b, nil
		}
		return nil, fmt.Errorf("%w: block %q refers to unknown block %q", ErrLoad, from, id)
	}

	for _, bd := range desc.Blocks {
		b := byID[bd.ID]

		switch b := b.(type) {
		case *RegularBlock:
			succ, err := lookup(bd.ID, bd.Next)
			if err != nil {
				return nil, err
			}
			b.SetSuccessor(succ)
		case *ConditionalBlock:
			then, err := lookup(bd.ID, bd.Then)
			if err != nil {
				return nil, err
			}
			els, err := lookup(bd.ID, bd.Else)
			if err != nil {
				return nil, err
			}
			b.SetThen(then)
			b.SetElse(els)
		case *SpecialBlock:
			if bd.Next != "" {
				succ, err := lookup(bd.ID, bd.Next)
				if err != nil {
					return nil, err
				}
				b.SetSuccessor(succ)
			}
		}

		for kind, id := range bd.Throws {
			succ, err := lookup(bd.ID, id)
			if err != nil {
				return nil, err
			}
			b.AddExceptional(kind, succ)
		}
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	return g, nil
}

func (bd blockDesc) isSpecial() bool {
	return bd.Kind == "" && len(bd.Nodes) == 0 && bd.Cond == ""
}

func (bd blockDesc) kind() string {
	switch {
	case bd.Kind != "":
		return bd.Kind
	case bd.Cond != "":
		return "conditional"
	}
	return "regular"
}
