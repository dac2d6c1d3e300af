package cfg

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNode(t *testing.T) {
	tests := []struct {
		text, expected string
	}{
		{"x = y + 1", "x = y + 1"},
		{"x := (y)", "x = y"},
		{"x += 2", "x = x + 2"},
		{"i--", "i = i - 1"},
		{"r = f(a, (b))", "r = f(a, b)"},
		{"f()", "f()"},
		{"a <= b", "a <= b"},
		{"return", "return"},
		{"return x - 1", "return x - 1"},
		{"skip", "skip"},
		{"n = len(s)", "n = len(s)"},
	}

	for _, test := range tests {
		n, err := ParseNode(test.text)
		require.NoError(t, err, test.text)
		assert.Equal(t, test.expected, n.String(), test.text)
	}
}

func TestParseNodeKinds(t *testing.T) {
	n, err := ParseNode("r = f(a)")
	require.NoError(t, err)
	call, ok := n.(*Call)
	require.True(t, ok, "%T", n)
	assert.Equal(t, "r", call.Target)
	assert.Equal(t, "f", call.Callee)
	assert.Len(t, call.Args, 1)

	n, err = ParseNode("a > b")
	require.NoError(t, err)
	cmp, ok := n.(*Compare)
	require.True(t, ok, "%T", n)
	assert.Equal(t, token.GTR, cmp.Op)
	assert.Equal(t, token.LEQ, cmp.Negate())
}

func TestParseNodeErrors(t *testing.T) {
	for _, text := range []string{
		"",
		"x = ",
		"a, b = 1, 2",
		"a + b",
		"x.f = 1",
		"if a < b {}",
		"x = 1; y = 2",
	} {
		_, err := ParseNode(text)
		assert.ErrorIs(t, err, ErrParse, "%q", text)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]string{
		"unknown successor": `
blocks:
  - id: entry
    next: nowhere
`,
		"bad node": `
blocks:
  - id: entry
    next: a
  - id: a
    nodes: ["x = "]
    next: exit
`,
		"unknown field": `
blocks:
  - id: entry
    nxt: exit
`,
		"empty block": `
blocks:
  - id: entry
    next: a
  - id: a
    next: exit
`,
	}

	for name, src := range tests {
		_, err := Load([]byte(src))
		assert.ErrorIs(t, err, ErrLoad, name)
	}
}

func TestLoadThrows(t *testing.T) {
	g, err := LoadFile("testdata/count.yaml")
	require.NoError(t, err)

	require.Len(t, g.Params(), 1)
	assert.Equal(t, []string{"len"}, g.Params()[0].LessThan)

	var body Block
	for _, b := range g.Blocks() {
		if b.Label() == "body" {
			body = b
		}
	}
	require.NotNil(t, body)
	assert.Equal(t, []string{"IOException"}, body.ExceptionalKinds())
	succ, ok := body.Exceptional("IOException")
	require.True(t, ok)
	assert.Equal(t, Block(g.ExceptionalExit()), succ)
}
