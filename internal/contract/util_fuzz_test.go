package contract

import (
	"strings"
	"testing"
)

// FuzzShouldIgnore checks that any path under a default ignore stays ignored
// whatever user excludes are added, and that the result is stable.
func FuzzShouldIgnore(f *testing.F) {
	seeds := []struct {
		path     string
		excludes string // comma-separated
	}{
		{"src/app.js", "*.min.js"},
		{"node_modules/lodash/index.js", "node_modules/"},
		{"web/node_modules/react/index.js", ""},
		{"pkg/__pycache__/mod.cpython-312.pyc", ".pyc"},
		{"dist/bundle.min.js", "fixtures/, *.gen.js"},
		{"src/main/java/App.java", "target/"},
		{"", ""},
		{"very/long/path/to/file.py", "**/temp/**"},
	}
	for _, seed := range seeds {
		f.Add(seed.path, seed.excludes)
	}

	f.Fuzz(func(t *testing.T, path string, excludesStr string) {
		excludes := append([]string{}, DefaultIgnores...)
		for ex := range strings.SplitSeq(excludesStr, ",") {
			if trimmed := strings.TrimSpace(ex); trimmed != "" {
				excludes = append(excludes, trimmed)
			}
		}

		got := ShouldIgnore(path, excludes)
		if got != ShouldIgnore(path, excludes) {
			t.Fatalf("ShouldIgnore(%q) is not deterministic", path)
		}
		for _, dir := range DefaultIgnores {
			if strings.HasPrefix(path, dir) && !got {
				t.Fatalf("%q is under %q but was not ignored", path, dir)
			}
		}
	})
}
