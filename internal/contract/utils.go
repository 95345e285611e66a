package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/qualityscore/schema"
)

// Color variables for console output.
var (
	GradeAColor = color.New(color.FgGreen, color.Bold) // excellent
	GradeBColor = color.New(color.FgCyan)              // good
	GradeCColor = color.New(color.FgYellow)            // needs work
	GradeDColor = color.New(color.FgRed, color.Bold)   // poor
)

// GetColorGrade returns a colored grade label for console output (table).
func GetColorGrade(grade schema.Grade) string {
	text := string(grade)
	switch grade {
	case schema.GradeA:
		return GradeAColor.Sprint(text)
	case schema.GradeB:
		return GradeBColor.Sprint(text)
	case schema.GradeC:
		return GradeCColor.Sprint(text)
	default:
		return GradeDColor.Sprint(text)
	}
}

// GetColorScore colors an overall score by the grade it maps to.
func GetColorScore(overall int, grade schema.Grade) string {
	text := fmt.Sprintf("%d", overall)
	switch grade {
	case schema.GradeA:
		return GradeAColor.Sprint(text)
	case schema.GradeB:
		return GradeBColor.Sprint(text)
	case schema.GradeC:
		return GradeCColor.Sprint(text)
	default:
		return GradeDColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// DefaultIgnores are path prefixes never analyzed or hashed for language detection.
var DefaultIgnores = []string{"node_modules/", ".git/", "dist/", "build/", "__pycache__/", ".venv/", "venv/", "target/"}

// ShouldIgnore returns true if the given path matches any of the exclude patterns.
// It supports simple glob patterns (using filepath.Match) when the pattern
// contains wildcard characters (*, ?, [ ]). Patterns ending with '/' are treated
// as directory names at any depth. Patterns starting with '.' are treated as
// suffix (extension) matches.
func ShouldIgnore(path string, excludes []string) bool {
	path = filepath.ToSlash(path)
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}

		if strings.ContainsAny(ex, "*?[") {
			pat := strings.ReplaceAll(ex, "**", "*")
			if ok, err := filepath.Match(pat, path); err == nil && ok {
				return true
			}
			// Also try matching against the base filename (e.g. *.min.js)
			if ok, err := filepath.Match(pat, filepath.Base(path)); err == nil && ok {
				return true
			}
			continue
		}

		switch {
		case strings.HasSuffix(ex, "/"):
			if strings.HasPrefix(path, ex) || strings.Contains(path, "/"+ex) {
				return true
			}
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(path, ex) {
				return true
			}
		case strings.Contains(path, ex):
			return true
		}
	}
	return false
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the SQLite DB file for analysis storage.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".qualityscore.db"
	}
	return filepath.Join(homeDir, ".qualityscore.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
