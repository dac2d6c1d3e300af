package utils

import (
	"flag"
	"fmt"
	"log"
	"strings"
)

type options struct {
	rangeBound   int
	maxValues    int
	cfgFile      string
	configFile   string
	function     string
	outputFormat string
	output       string
	gopath       string
	modulePath   string
	query        string
	task         string
	noColorize   bool
	verbose      bool
	includeTests bool
}

const (
	_ANALYZE = iota
	_PRINT_CFG
	_CFG_TO_DOT
)

func CanColorize(col func(...interface{}) string) func(...interface{}) string {
	if opts.noColorize {
		return func(is ...interface{}) string {
			return fmt.Sprintf(strings.Repeat("%s", len(is)), is...)
		}
	}
	return col
}

var task = []struct{ flag, explanation string }{{
	"analyze",
	"Run the value-range and less-than analyses and report the store before every block",
}, {
	"print-cfg",
	"Print the control-flow graph of the target routine",
}, {
	"cfg-to-dot",
	"Render the control-flow graph of the target routine with Graphviz",
}}

var outputs = []string{"text", "yaml"}

var opts = &options{}

type optInterface struct{}

type taskInterface struct{}

func Opts() optInterface {
	return optInterface{}
}

func (optInterface) NoColorize() bool {
	return opts.noColorize
}

// SetNoColorize toggles colorization of pretty printed lattice elements.
func (optInterface) SetNoColorize(b bool) {
	opts.noColorize = b
}

func (optInterface) RangeBound() int {
	return opts.rangeBound
}
func (optInterface) MaxValues() int {
	return opts.maxValues
}
func (optInterface) CfgFile() string {
	return opts.cfgFile
}
func (optInterface) ConfigFile() string {
	return opts.configFile
}
func (optInterface) Function() string {
	return opts.function
}
func (optInterface) OutputFormat() string {
	return opts.outputFormat
}
func (optInterface) Output() string {
	return opts.output
}
func (optInterface) GoPath() string {
	return opts.gopath
}
func (optInterface) ModulePath() string {
	return opts.modulePath
}
func (optInterface) Query() string {
	return opts.query
}
func (optInterface) IncludeTests() bool {
	return opts.includeTests
}
func (optInterface) Verbose() bool {
	return opts.verbose
}

// IsSet reports whether the named flag was given explicitly on the command line.
func (optInterface) IsSet(name string) (set bool) {
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return
}

func (optInterface) Task() taskInterface {
	return taskInterface{}
}
func (taskInterface) IsAnalyze() bool {
	return opts.task == task[_ANALYZE].flag
}
func (taskInterface) IsPrintCfg() bool {
	return opts.task == task[_PRINT_CFG].flag
}
func (taskInterface) IsCfgToDot() bool {
	return opts.task == task[_CFG_TO_DOT].flag
}

func init() {
	taskFlag := "\n"
	for _, task := range task {
		taskFlag += task.flag + " -- " + task.explanation + "\n"
	}
	taskFlag += "\n"

	flag.StringVar(&(opts.task), "task", task[_ANALYZE].flag, "Set the task to do during execution. Options:"+taskFlag)
	flag.StringVar(&(opts.cfgFile), "cfg", "", "load the control-flow graph from a YAML description instead of a Go package")
	flag.StringVar(&(opts.configFile), "config", "", "path to a TOML configuration file (see config.Config)")
	flag.StringVar(&(opts.function), "fun", "main", "name of the function to analyze when loading a Go package")
	flag.StringVar(&(opts.outputFormat), "format", "svg", "output file format for cfg-to-dot [svg | png | jpg | ...]")
	flag.StringVar(&(opts.output), "output", outputs[0], "report format for the analyze task [text | yaml]")
	flag.StringVar(&(opts.gopath), "gopath", ".", "specify GOPATH to be used for packages.Load")
	flag.StringVar(&(opts.modulePath), "modulepath", "", `specify a path to a directory containing a Go module.
- If provided, packages are loaded in "module-aware" mode (GO111MODULE=on).`)
	flag.StringVar(&(opts.query), "query", "", `inequality to check at the exit of the routine, e.g. "i < n" or "i <= n"`)
	flag.IntVar(&(opts.rangeBound), "range-bound", 256, "magnitude beyond which value-range bounds are widened to infinity")
	flag.IntVar(&(opts.maxValues), "max-values", 10, "maximum number of enumerated values tracked before switching to a range")
	flag.BoolVar(&(opts.noColorize), "no-colorize", false, "Disable pretty printer colorization")
	flag.BoolVar(&(opts.verbose), "verbose", false, "enable verbose output")
	flag.BoolVar(&(opts.includeTests), "include-tests", false, "include test files when loading Go packages")

	// Set up logging
	log.SetFlags(log.Ltime | log.Lshortfile)
}

func ParseArgs() {
	// Calling flag.Parse in init messes up unit tests.
	flag.Parse()

	validTask := false
	for _, task := range task {
		if task.flag == opts.task {
			validTask = true
			break
		}
	}
	if !validTask {
		log.Fatalf("Value \"%s\" is not valid for -task", opts.task)
	}

	validOutput := false
	for _, o := range outputs {
		validOutput = validOutput || o == opts.output
	}
	if !validOutput {
		log.Fatalf("Value \"%s\" is not valid for -output", opts.output)
	}

	if Opts().Task().IsCfgToDot() || opts.output == "yaml" {
		opts.noColorize = true
	}
}

func (optInterface) OnVerbose(do func()) {
	if Opts().Verbose() {
		do()
	}
}
