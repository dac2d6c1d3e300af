package main

import (
	"bytes"
	"testing"

	"github.com/cs-au-dk/dflow/analysis/cfg"
	"github.com/cs-au-dk/dflow/config"
	"github.com/cs-au-dk/dflow/utils"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func runCount(t *testing.T, query string) *report {
	t.Helper()
	g, err := cfg.LoadFile("testdata/count.yaml")
	require.NoError(t, err)
	rep, err := pipeline{g, config.Default()}.run(query)
	require.NoError(t, err)
	return rep
}

func TestReportText(t *testing.T) {
	utils.Opts().SetNoColorize(true)
	defer utils.Opts().SetNoColorize(false)

	rep := runCount(t, "i < n")
	var buf bytes.Buffer
	require.NoError(t, rep.write(&buf, "text"))
	goldie.New(t).Assert(t, t.Name(), buf.Bytes())
}

func TestReportYAML(t *testing.T) {
	rep := runCount(t, "n <= i")
	var buf bytes.Buffer
	require.NoError(t, rep.write(&buf, "yaml"))

	var parsed struct {
		Name   string `yaml:"cfg"`
		Blocks []struct {
			Block    string              `yaml:"block"`
			LessThan map[string][]string `yaml:"lessthan"`
		} `yaml:"blocks"`
		Query queryReport `yaml:"query"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &parsed))

	assert.Equal(t, "count", parsed.Name)
	require.Len(t, parsed.Blocks, 6)
	assert.Equal(t, "body", parsed.Blocks[3].Block)
	assert.Equal(t, []string{"len", "n"}, parsed.Blocks[3].LessThan["i"])
	assert.Equal(t, queryReport{"n <= i", "proven"}, parsed.Query)
}

func TestQueries(t *testing.T) {
	tests := []struct {
		query, verdict string
	}{
		{"i < n", "disproven"},
		{"n > i", "disproven"},
		{"n <= i", "proven"},
		{"i >= n", "proven"},
		{"n < len", "proven"},
		{"i < len", "unprovable"},
	}
	for _, test := range tests {
		rep := runCount(t, test.query)
		require.NotNil(t, rep.Query)
		assert.Equal(t, test.verdict, rep.Query.Verdict, test.query)
	}

	g, err := cfg.LoadFile("testdata/count.yaml")
	require.NoError(t, err)
	for _, query := range []string{"i == n", "x = 1", "i <"} {
		_, err := pipeline{g, config.Default()}.run(query)
		assert.ErrorIs(t, err, cfg.ErrParse, query)
	}
}
