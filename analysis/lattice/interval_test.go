package lattice

import "testing"

func TestIntervalJoin(t *testing.T) {
	lat := Create().Lattice().Interval()
	int := Create().Element().Interval

	type b = FiniteBound
	type P = PlusInfinity
	type M = MinusInfinity

	tests := []struct {
		a, b, expected Element
	}{
		{lat.Bot(), lat.Bot(), lat.Bot()},
		{lat.Bot(), lat.Top(), lat.Top()},
		{lat.Top(), lat.Bot(), lat.Top()},
		{lat.Bot(), int(b(0), b(0)), int(b(0), b(0))},
		{int(b(0), b(0)), int(b(1), b(1)), int(b(0), b(1))},
		{int(b(1), b(2)), int(b(3), b(4)), int(b(1), b(4))},
		{int(b(-1), b(0)), int(b(0), b(1)), int(b(-1), b(1))},
		{int(b(0), b(1024)), int(b(0), P{}), int(b(0), P{})},
		{int(M{}, b(0)), int(b(-1024), b(0)), int(M{}, b(0))},
		{int(M{}, b(-1024)), int(b(1024), P{}), lat.Top()},
	}

	for _, test := range tests {
		res := test.a.Join(test.b)
		if !res.Eq(test.expected) {
			t.Errorf("%s ⊔ %s = %s, expected %s\n", test.a, test.b, res, test.expected)
		}
	}
}

func TestIntervalMeet(t *testing.T) {
	lat := Create().Lattice().Interval()
	int := Create().Element().IntervalFinite

	tests := []struct {
		a, b, expected Element
	}{
		{lat.Top(), int(1, 2), int(1, 2)},
		{int(0, 5), int(3, 9), int(3, 5)},
		{int(0, 1), int(3, 9), lat.Bot()},
		{lat.Bot(), int(3, 9), lat.Bot()},
	}

	for _, test := range tests {
		res := test.a.Meet(test.b)
		if !res.Eq(test.expected) {
			t.Errorf("%s ⊓ %s = %s, expected %s\n", test.a, test.b, res, test.expected)
		}
	}
}

func TestIntervalLeq(t *testing.T) {
	lat := Create().Lattice().Interval()
	int := Create().Element().IntervalFinite

	tests := []struct {
		a, b     Element
		expected bool
	}{
		{lat.Bot(), int(0, 0), true},
		{int(0, 0), lat.Bot(), false},
		{int(1, 2), int(0, 3), true},
		{int(0, 3), int(1, 2), false},
		{int(0, 3), lat.Top(), true},
		{lat.Top(), int(0, 3), false},
	}

	for _, test := range tests {
		if res := test.a.Leq(test.b); res != test.expected {
			t.Errorf("%s ⊑ %s = %v, expected %v\n", test.a, test.b, res, test.expected)
		}
	}
}

func TestIntervalClamp(t *testing.T) {
	int := Create().Element().Interval

	type b = FiniteBound
	type P = PlusInfinity
	type M = MinusInfinity

	tests := []struct {
		in, expected Interval
	}{
		{int(b(0), b(10)), int(b(0), b(10))},
		{int(b(0), b(11)), int(b(0), P{})},
		{int(b(-11), b(0)), int(M{}, b(0))},
		{int(b(20), b(30)), int(b(10), P{})},
		{int(b(-30), b(-20)), int(M{}, b(-10))},
	}

	for _, test := range tests {
		if res := test.in.Clamp(10); !res.Eq(test.expected) {
			t.Errorf("clamp(%s) = %s, expected %s\n", test.in, res, test.expected)
		}
	}
}

func TestIntervalBounds(t *testing.T) {
	itv := Create().Element().Interval(FiniteBound(3), PlusInfinity{})
	if lo, ok := itv.Low(); !ok || lo != 3 {
		t.Errorf("low(%s) = %d, %v", itv, lo, ok)
	}
	if _, ok := itv.High(); ok {
		t.Errorf("high(%s) should be infinite", itv)
	}
	if !itv.Contains(3) || itv.Contains(2) {
		t.Errorf("membership in %s is wrong", itv)
	}

	shifted := itv.Shift(-5)
	if lo, _ := shifted.Low(); lo != -2 {
		t.Errorf("%s shifted by -5 = %s", itv, shifted)
	}

	sum := FiniteBound(1 << 62).Plus(FiniteBound(1 << 62))
	if _, ok := sum.(PlusInfinity); !ok {
		t.Errorf("overflowing sum should saturate, found %s", sum)
	}
}
