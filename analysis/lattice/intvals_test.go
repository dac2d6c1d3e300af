package lattice

import (
	"testing"

	"golang.org/x/exp/slices"
)

func TestIntValuesJoinMeet(t *testing.T) {
	lat := Create().Lattice().IntValues()
	vals := Create().Element().IntValues

	tests := []struct {
		a, b, join, meet Element
	}{
		{lat.Bot(), vals(1), vals(1), lat.Bot()},
		{vals(1, 2), vals(2, 3), vals(1, 2, 3), vals(2)},
		{vals(1), lat.Top(), lat.Top(), vals(1)},
		{vals(1), vals(2), vals(1, 2), lat.Bot()},
	}

	for _, test := range tests {
		if res := test.a.Join(test.b); !res.Eq(test.join) {
			t.Errorf("%s ⊔ %s = %s, expected %s\n", test.a, test.b, res, test.join)
		}
		if res := test.a.Meet(test.b); !res.Eq(test.meet) {
			t.Errorf("%s ⊓ %s = %s, expected %s\n", test.a, test.b, res, test.meet)
		}
	}
}

func TestIntValuesQueries(t *testing.T) {
	vs := Create().Element().IntValues(7, -3, 12, 7)

	if vs.Size() != 3 {
		t.Errorf("%s has size %d, expected 3", vs, vs.Size())
	}
	if min, ok := vs.Min(); !ok || min != -3 {
		t.Errorf("min(%s) = %d", vs, min)
	}
	if max, ok := vs.Max(); !ok || max != 12 {
		t.Errorf("max(%s) = %d", vs, max)
	}
	if !slices.Equal(vs.Values(), []int64{-3, 7, 12}) {
		t.Errorf("values(%s) = %v", vs, vs.Values())
	}
	if hull := vs.Hull(); !hull.Eq(Create().Element().IntervalFinite(-3, 12)) {
		t.Errorf("hull(%s) = %s", vs, hull)
	}
	if _, ok := Create().Lattice().IntValues().Top().IntValues().Min(); ok {
		t.Error("⊤ should have no minimum")
	}
}
