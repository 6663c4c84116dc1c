package arch_test

import (
	"strings"
	"testing"
)

// pureCore lists the packages whose output must be a function of their
// inputs alone. They may import only the standard library and each other.
var pureCore = map[string]bool{
	"rng":          true,
	"catalog":      true,
	"fusion":       true,
	"skymap":       true,
	"habitability": true,
}

// impureStdlib lists standard packages that read the clock, the
// environment or a global random source.
var impureStdlib = []string{"time", "math/rand", "crypto/rand", "os", "net", "syscall"}

func TestPureCoreImports(t *testing.T) {
	t.Parallel()

	for _, p := range loadPackages(t) {
		if !pureCore[p.Name] {
			continue
		}
		for _, path := range p.imports() {
			if dep, ok := internalName(path); ok {
				if !pureCore[dep] {
					t.Errorf("%s imports internal/%s, which is outside the deterministic core", p.Name, dep)
				}
				continue
			}
			if !isStdlib(path) {
				t.Errorf("%s imports third-party package %s", p.Name, path)
				continue
			}
			for _, bad := range impureStdlib {
				if path == bad || strings.HasPrefix(path, bad+"/") {
					t.Errorf("%s imports %s, which makes output depend on more than its inputs", p.Name, path)
				}
			}
		}
	}
}

func TestPureCoreExists(t *testing.T) {
	t.Parallel()

	present := make(map[string]bool)
	for _, p := range loadPackages(t) {
		present[p.Name] = true
	}
	for name := range pureCore {
		if !present[name] {
			t.Errorf("pureCore lists %s but internal/%s does not exist", name, name)
		}
	}
}

func TestImportClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		stdlib   bool
		internal string
	}{
		{"math", true, ""},
		{"math/rand/v2", true, ""},
		{"github.com/spf13/viper", false, ""},
		{"go.uber.org/zap", false, ""},
		{modulePath + "/internal/catalog", false, "catalog"},
		{modulePath + "/internal/tui/sub", false, "tui"},
	}
	for _, tt := range tests {
		if got := isStdlib(tt.path); got != tt.stdlib {
			t.Errorf("isStdlib(%q) = %v, want %v", tt.path, got, tt.stdlib)
		}
		if got, _ := internalName(tt.path); got != tt.internal {
			t.Errorf("internalName(%q) = %q, want %q", tt.path, got, tt.internal)
		}
	}
}
