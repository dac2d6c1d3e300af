package lattice

import "log"

type Lattice interface {
	Top() Element
	Bot() Element

	String() string
	Eq(Lattice) bool

	// These methods allow for quick type conversions.
	// Suitable, if you know what lattice type to expect.
	Interval() *IntervalLattice
	IntValues() *IntValuesLattice
	LessThan() *LessThanLattice
}

type lattice struct{}

func (*lattice) Interval() *IntervalLattice {
	panic(errUnsupportedTypeConversion)
}

func (*lattice) IntValues() *IntValuesLattice {
	panic(errUnsupportedTypeConversion)
}

func (*lattice) LessThan() *LessThanLattice {
	panic(errUnsupportedTypeConversion)
}

// checkLatticeMatch aborts when a binary operation mixes elements of
// different lattices. Such a mix is always a programming error.
func checkLatticeMatch(l1, l2 Lattice, binop string) {
	if !l1.Eq(l2) {
		log.Panicln(
			"Lattice error - Invalid", binop,
			"\nOperand 1 ∈\n",
			l1.String(),
			"\nOperand 2 ∈\n",
			l2.String(),
		)
	}
}
