package main

import (
	"fmt"
	"io"

	"github.com/cs-au-dk/dflow/analysis/lessthan"
	"github.com/cs-au-dk/dflow/analysis/valuerange"
	"github.com/cs-au-dk/dflow/utils"

	"github.com/fatih/color"
	"gopkg.in/yaml.v2"
)

// report lists the facts known before every reachable block.
type report struct {
	Name        string        `yaml:"cfg"`
	Blocks      []blockReport `yaml:"blocks"`
	Unreachable []string      `yaml:"unreachable,omitempty"`
	Query       *queryReport  `yaml:"query,omitempty"`
}

type blockReport struct {
	Block      string            `yaml:"block"`
	LessThan   *lessthan.Store   `yaml:"lessthan,omitempty"`
	ValueRange *valuerange.Store `yaml:"ranges,omitempty"`
}

type queryReport struct {
	Query   string `yaml:"query"`
	Verdict string `yaml:"verdict"`
}

func (r *report) write(w io.Writer, format string) error {
	if format == "yaml" {
		out, err := yaml.Marshal(r)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}
	return r.writeText(w)
}

func (r *report) writeText(w io.Writer) (err error) {
	header := utils.CanColorize(color.New(color.FgHiBlue, color.Bold).SprintFunc())
	label := utils.CanColorize(color.New(color.FgGreen).SprintFunc())

	printf := func(format string, a ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, a...)
		}
	}

	printf("%s %s\n", header("cfg"), r.Name)
	for _, b := range r.Blocks {
		printf("%s\n", label(b.Block))
		if b.LessThan != nil {
			printf("\tless-than   %s\n", b.LessThan)
		}
		if b.ValueRange != nil {
			printf("\tvalue-range %s\n", b.ValueRange)
		}
	}
	for _, b := range r.Unreachable {
		printf("%s unreachable\n", label(b))
	}

	if q := r.Query; q != nil {
		paint := color.New(color.FgRed).SprintFunc()
		if q.Verdict == lessthan.Proven.String() {
			paint = color.New(color.FgGreen).SprintFunc()
		}
		printf("%s %s at exit: %s\n", header("query"), q.Query, utils.CanColorize(paint)(q.Verdict))
	}
	return
}
