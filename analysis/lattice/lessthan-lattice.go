package lattice

// LessThanLattice is the lattice of less-than qualifiers. A qualifier
// LessThan(E) states that a value is strictly smaller than every
// expression in E. Bigger sets carry more information, so the ordering is
// reverse set inclusion, with Unknown (the empty set) at the top and a
// dedicated Bottom below every set.
type LessThanLattice struct {
	lattice
}

var lessThanLattice = &LessThanLattice{}

// LessThan yields the less-than qualifier lattice.
func (latticeFactory) LessThan() *LessThanLattice {
	return lessThanLattice
}

// Top yields Unknown.
func (*LessThanLattice) Top() Element {
	return Unknown()
}

// Bot yields Bottom.
func (*LessThanLattice) Bot() Element {
	return Bottom()
}

func (*LessThanLattice) String() string {
	return colorize.Lattice("LessThan")
}

func (l1 *LessThanLattice) Eq(l2 Lattice) bool {
	_, ok := l2.(*LessThanLattice)
	return ok
}

func (l1 *LessThanLattice) LessThan() *LessThanLattice {
	return l1
}
