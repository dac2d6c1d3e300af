package main

import (
	"log"
	"os"

	"github.com/cs-au-dk/dflow/analysis/cfg"
	"github.com/cs-au-dk/dflow/analysis/frontend"
	"github.com/cs-au-dk/dflow/config"
	"github.com/cs-au-dk/dflow/pkgutil"
	"github.com/cs-au-dk/dflow/utils"
)

var (
	opts = utils.Opts()
	task = opts.Task()
)

func main() {
	utils.ParseArgs()

	conf, err := loadConfig()
	if err != nil {
		log.Fatalln(err)
	}

	g, err := loadCfg(conf)
	if err != nil {
		log.Fatalln(err)
	}

	switch {
	case task.IsPrintCfg():
		if err := g.Print(os.Stdout); err != nil {
			log.Fatalln(err)
		}
	case task.IsCfgToDot():
		img, err := g.Visualize(g.Name(), opts.OutputFormat())
		if err != nil {
			log.Fatalln(err)
		}
		log.Println("Rendered", img)
	default:
		rep, err := pipeline{g, conf}.run(opts.Query())
		if err != nil {
			log.Fatalln(err)
		}
		if err := rep.write(os.Stdout, opts.Output()); err != nil {
			log.Fatalln(err)
		}
	}
}

// loadConfig reads the configuration file, if any, and applies the
// command-line overrides.
func loadConfig() (config.Config, error) {
	conf := config.Default()
	if path := opts.ConfigFile(); path != "" {
		var err error
		if conf, err = config.Load(path); err != nil {
			return conf, err
		}
	}

	if opts.IsSet("range-bound") {
		conf.ValueRange.RangeBound = int64(opts.RangeBound())
	}
	if opts.IsSet("max-values") {
		conf.ValueRange.MaxValues = opts.MaxValues()
	}
	return conf, conf.Validate()
}

// loadCfg reads the routine to analyze, either from a YAML description or
// from a function of a Go package.
func loadCfg(conf config.Config) (*cfg.Cfg, error) {
	if path := opts.CfgFile(); path != "" {
		log.Println("Loading CFG from", path)
		return cfg.LoadFile(path)
	}

	path := utils.MakePath()
	log.Println("Loading package", path)
	pkgs, err := pkgutil.LoadPackages(pkgutil.LoadConfig{
		GoPath:       opts.GoPath(),
		ModulePath:   opts.ModulePath(),
		IncludeTests: opts.IncludeTests(),
	}, path)
	if err != nil {
		return nil, err
	}

	_, spkgs := pkgutil.BuildSSA(pkgs)
	fn, err := pkgutil.FindFunction(spkgs, opts.Function())
	if err != nil {
		return nil, err
	}
	opts.OnVerbose(func() {
		fn.WriteTo(os.Stderr)
	})
	return frontend.FromSSA(fn, conf.Frontend)
}
