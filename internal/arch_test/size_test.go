package arch_test

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

const (
	maxSourceLines = 400
	maxTestLines   = 600
)

func TestFileSize(t *testing.T) {
	t.Parallel()

	for _, p := range loadPackages(t) {
		for _, path := range goFiles(t, p.Dir, true) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading %s: %v", path, err)
			}
			if bytes.Contains(data, []byte("// Code generated ")) {
				continue
			}
			limit := maxSourceLines
			if strings.HasSuffix(path, "_test.go") {
				limit = maxTestLines
			}
			if n := bytes.Count(data, []byte("\n")); n > limit {
				t.Errorf("%s has %d lines (max %d); split it", rel(path), n, limit)
			}
		}
	}
}
