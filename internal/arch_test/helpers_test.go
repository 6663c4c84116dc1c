// Package arch_test checks structural rules of the internal packages by
// parsing their source: layering, determinism of the generation core,
// documentation, package-level state, interface placement and file size.
package arch_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"testing"
)

const (
	modulePath     = "github.com/papapumpkin/cosmic"
	internalPrefix = modulePath + "/internal/"
)

// pkgInfo is one parsed internal package. Files holds only non-test sources.
type pkgInfo struct {
	Name  string
	Dir   string
	Fset  *token.FileSet
	Files map[string]*ast.File
}

// internalDir returns the absolute path of internal/, derived from the
// location of this file.
func internalDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	return filepath.Dir(filepath.Dir(thisFile))
}

// loadPackages parses every package under internal/ except this one, sorted
// by name.
func loadPackages(t *testing.T) []pkgInfo {
	t.Helper()

	root := internalDir(t)
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("reading %s: %v", root, err)
	}

	var pkgs []pkgInfo
	for _, e := range entries {
		if !e.IsDir() || e.Name() == "arch_test" {
			continue
		}
		p := pkgInfo{
			Name:  e.Name(),
			Dir:   filepath.Join(root, e.Name()),
			Fset:  token.NewFileSet(),
			Files: make(map[string]*ast.File),
		}
		for _, path := range goFiles(t, p.Dir, false) {
			f, err := parser.ParseFile(p.Fset, path, nil, parser.ParseComments)
			if err != nil {
				t.Fatalf("parsing %s: %v", path, err)
			}
			p.Files[path] = f
		}
		if len(p.Files) > 0 {
			pkgs = append(pkgs, p)
		}
	}
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Name < pkgs[j].Name })
	return pkgs
}

// goFiles lists the .go files in dir, including _test.go files when
// withTests is set.
func goFiles(t *testing.T, dir string, withTests bool) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}
		if !withTests && strings.HasSuffix(name, "_test.go") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files
}

// imports returns the deduplicated import paths of the package, sorted.
func (p pkgInfo) imports() []string {
	seen := make(map[string]bool)
	for _, f := range p.Files {
		for _, imp := range f.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			if err == nil {
				seen[path] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for path := range seen {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// internalName returns the internal package an import path names, if any.
func internalName(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, internalPrefix)
	if !ok {
		return "", false
	}
	name, _, _ := strings.Cut(rest, "/")
	return name, true
}

// isStdlib reports whether path belongs to the standard library: its first
// element carries no dot.
func isStdlib(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}

// rel trims everything before internal/ for readable failure messages.
func rel(path string) string {
	if i := strings.Index(path, "internal/"); i >= 0 {
		return path[i:]
	}
	return filepath.Base(path)
}
