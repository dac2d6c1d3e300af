package lattice

// IntValuesLattice is the powerset lattice over 64-bit integers, extended
// with a top element representing any integer.
type IntValuesLattice struct {
	lattice
}

var intValuesLattice = &IntValuesLattice{}

// IntValues yields the integer value set lattice.
func (latticeFactory) IntValues() *IntValuesLattice {
	return intValuesLattice
}

// Top yields the set containing every integer.
func (*IntValuesLattice) Top() Element {
	return IntValues{top: true}
}

// Bot yields the empty set of integers.
func (*IntValuesLattice) Bot() Element {
	return IntValues{}
}

func (*IntValuesLattice) String() string {
	return colorize.Lattice("℘(ℤ)")
}

func (l1 *IntValuesLattice) Eq(l2 Lattice) bool {
	_, ok := l2.(*IntValuesLattice)
	return ok
}

func (l1 *IntValuesLattice) IntValues() *IntValuesLattice {
	return l1
}
