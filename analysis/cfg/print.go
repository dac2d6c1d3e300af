package cfg

import (
	"fmt"
	"io"
	"strings"
)

// Print writes a textual listing of the reachable blocks of the CFG in
// breadth-first order.
func (g *Cfg) Print(w io.Writer) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "cfg %s\n", g.name)
	for _, p := range g.params {
		fmt.Fprintln(&sb, p)
	}

	for _, b := range g.Blocks() {
		sb.WriteString(b.Label() + " [" + kindOf(b) + "]")

		switch b := b.(type) {
		case *RegularBlock:
			sb.WriteString("\n")
			for _, n := range b.contents {
				fmt.Fprintf(&sb, "\t%s\n", n)
			}
			if b.succ != nil {
				fmt.Fprintf(&sb, "\t-> %s\n", b.succ)
			}
		case *ConditionalBlock:
			fmt.Fprintf(&sb, " %s\n", b.cond)
			if b.then != nil {
				fmt.Fprintf(&sb, "\tthen -> %s\n", b.then)
			}
			if b.els != nil {
				fmt.Fprintf(&sb, "\telse -> %s\n", b.els)
			}
		case *SpecialBlock:
			sb.WriteString("\n")
			if b.succ != nil {
				fmt.Fprintf(&sb, "\t-> %s\n", b.succ)
			}
		}

		for _, kind := range b.ExceptionalKinds() {
			succ, _ := b.Exceptional(kind)
			fmt.Fprintf(&sb, "\t%s -> %s\n", kind, succ)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (g *Cfg) String() string {
	var sb strings.Builder
	g.Print(&sb)
	return sb.String()
}
