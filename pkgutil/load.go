// Package pkgutil loads Go packages and builds their SSA form, from which
// control-flow graphs of individual functions are extracted.
package pkgutil

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"

	"golang.org/x/tools/go/packages"
)

var ErrLoad = errors.New("errors encountered while loading packages")

// LoadConfig determines how packages are located. A non-empty ModulePath
// selects module-aware mode for the module rooted there; otherwise packages
// are resolved in GoPath.
type LoadConfig struct {
	GoPath, ModulePath string
	IncludeTests       bool
}

// loadMode sets every packages.Need* option required to build SSA.
const loadMode packages.LoadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedImports | packages.NeedTypes | packages.NeedTypesSizes | packages.NeedSyntax |
	packages.NeedTypesInfo | packages.NeedDeps

var (
	moduleRegex = regexp.MustCompile(`(?m)^module\s+(.*)$`)

	cwd = func() string {
		dir, err := os.Getwd()
		if err != nil {
			panic(err)
		}
		return dir
	}()
)

// relativizingParseFile parses files under names relative to the working
// directory, keeping printed positions stable across machines.
func relativizingParseFile(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
	if rel, err := filepath.Rel(cwd, filename); err == nil {
		filename = rel
	}
	const mode = parser.AllErrors | parser.ParseComments
	return parser.ParseFile(fset, filename, src, mode)
}

// LoadPackages loads the packages matching query.
func LoadPackages(cfg LoadConfig, query string) ([]*packages.Package, error) {
	gopath, err := filepath.Abs(cfg.GoPath)
	if err != nil {
		return nil, err
	}

	config := &packages.Config{
		Mode:      loadMode,
		Tests:     cfg.IncludeTests,
		ParseFile: relativizingParseFile,
	}

	if cfg.ModulePath == "" {
		config.Env = append(os.Environ(), "GOPATH="+gopath, "GO111MODULE=off")
		return load(config, query)
	}

	root, err := filepath.Abs(cfg.ModulePath)
	if err != nil {
		return nil, err
	}
	contents, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return nil, fmt.Errorf("%w: no go.mod in %s: %v", ErrLoad, cfg.ModulePath, err)
	}
	if m := moduleRegex.FindSubmatch(contents); len(m) <= 1 {
		return nil, fmt.Errorf("%w: no module directive in %s/go.mod", ErrLoad, cfg.ModulePath)
	}

	config.Dir = root
	config.Env = append(os.Environ(), "GOPATH="+gopath, "GO111MODULE=on")
	return load(config, query)
}

// LoadPackagesFromSource loads a single main package with the given source.
func LoadPackagesFromSource(source string) ([]*packages.Package, error) {
	// The overlay lets packages.Load find a file that does not exist.
	config := &packages.Config{
		Mode: loadMode,
		Env:  append(os.Environ(), "GO111MODULE=off", "GOPATH=/fake"),
		Overlay: map[string][]byte{
			"/fake/testpackage/main.go": []byte(source),
		},
	}
	return load(config, "/fake/testpackage/main.go")
}

func load(config *packages.Config, query string) ([]*packages.Package, error) {
	pkgs, err := packages.Load(config, query)
	switch {
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	case packages.PrintErrors(pkgs) > 0:
		return nil, ErrLoad
	}

	if !config.Tests {
		return pkgs, nil
	}

	// Packages with tests are returned twice. Keep only the version that
	// includes the tests so that types and functions are not duplicated.
	ids := make(map[string]bool, len(pkgs))
	for _, pkg := range pkgs {
		ids[pkg.ID] = true
	}
	filtered := pkgs[:0]
	for _, pkg := range pkgs {
		if !ids[fmt.Sprintf("%s [%s.test]", pkg.ID, pkg.ID)] {
			filtered = append(filtered, pkg)
		}
	}
	return filtered, nil
}
