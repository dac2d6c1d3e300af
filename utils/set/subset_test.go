package set

import (
	"strings"
	"testing"
)

func compareResults(t *testing.T, found, expected map[string]struct{}) {
	for str := range expected {
		if _, ok := found[str]; !ok {
			t.Errorf("Subset %q expected but not found", str)
		}
	}

	for str := range found {
		if _, ok := expected[str]; !ok {
			t.Errorf("Subset %q found but not expected", str)
		}
	}
}

func TestSubset(t *testing.T) {
	S := SubsetsV("A", "B", "C", "D")

	expected := map[string]struct{}{
		"":     {},
		"A":    {},
		"B":    {},
		"C":    {},
		"D":    {},
		"AB":   {},
		"AC":   {},
		"AD":   {},
		"BC":   {},
		"BD":   {},
		"CD":   {},
		"ABC":  {},
		"ABD":  {},
		"ACD":  {},
		"BCD":  {},
		"ABCD": {},
	}

	found := make(map[string]struct{})
	count := 0
	S.ForEach(func(subset []string) {
		found[strings.Join(subset, "")] = struct{}{}
		count++
	})

	compareResults(t, found, expected)
	if count != 16 {
		t.Errorf("Visited %d subsets, expected 16", count)
	}
}

func TestEmpty(t *testing.T) {
	all := SubsetsV[string]().All()
	if len(all) != 1 || len(all[0]) != 0 {
		t.Errorf("Expected only the empty subset, found %v", all)
	}
}
