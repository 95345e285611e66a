package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/qualityscore/schema"
	"github.com/src-d/enry/v2"
)

// commentSyntax describes how one language family writes comments.
type commentSyntax struct {
	line  []string
	block [][2]string
}

var (
	cStyle    = commentSyntax{line: []string{"//"}, block: [][2]string{{"/*", "*/"}}}
	hashStyle = commentSyntax{line: []string{"#"}}
	pyStyle   = commentSyntax{line: []string{"#"}, block: [][2]string{{`"""`, `"""`}, {"'''", "'''"}}}
	phpStyle  = commentSyntax{line: []string{"//", "#"}, block: [][2]string{{"/*", "*/"}}}
	rubyStyle = commentSyntax{line: []string{"#"}, block: [][2]string{{"=begin", "=end"}}}
)

// countedExts is the set of extensions the line counter reads.
var countedExts = map[string]commentSyntax{
	".js": cStyle, ".jsx": cStyle, ".mjs": cStyle, ".cjs": cStyle, ".ts": cStyle, ".tsx": cStyle,
	".java": cStyle, ".c": cStyle, ".h": cStyle, ".cpp": cStyle, ".cs": cStyle, ".go": cStyle,
	".py": pyStyle, ".rb": rubyStyle, ".php": phpStyle, ".sh": hashStyle,
}

// LineCounter counts source, comment and blank lines in-process.
type LineCounter struct {
	excludes []string
}

// NewLineCounter creates a line counter that skips the given exclude patterns.
func NewLineCounter(excludes []string) *LineCounter {
	return &LineCounter{excludes: excludes}
}

// Tool implements the Adapter interface.
func (c *LineCounter) Tool() schema.Tool { return schema.ClocTool }

// Applies implements the Adapter interface.
func (c *LineCounter) Applies([]schema.Language) bool { return true }

// Run implements the Adapter interface.
// A line holding both code and a comment counts toward both; blank lines are
// empty lines outside a block comment.
func (c *LineCounter) Run(ctx context.Context, dir string) (schema.Report, error) {
	var total LineTally
	perLang := make(map[string]*LineTally)

	err := walkSources(dir, c.excludes, func(path, rel string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		syntax, ok := countedExts[strings.ToLower(filepath.Ext(rel))]
		if !ok {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		tally := CountLines(string(data), syntax)
		total.add(tally)

		lang := enry.GetLanguage(filepath.Base(rel), data)
		if lang == "" {
			lang = "Other"
		}
		if perLang[lang] == nil {
			perLang[lang] = &LineTally{}
		}
		perLang[lang].add(tally)
		perLang[lang].Files++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count lines in %s: %w", dir, err)
	}

	report := schema.LineCountReport{
		Source:    schema.Number(total.Code),
		Comment:   schema.Number(total.Comment),
		Blank:     schema.Number(total.Blank),
		Total:     schema.Number(total.Total),
		Languages: make(map[string]schema.LineCounts, len(perLang)),
	}
	for lang, t := range perLang {
		report.Languages[lang] = schema.LineCounts{
			Files:   schema.Number(t.Files),
			Blank:   schema.Number(t.Blank),
			Comment: schema.Number(t.Comment),
			Code:    schema.Number(t.Code),
		}
	}
	return report, nil
}

// LineTally is a line count for one file or a group of files.
type LineTally struct {
	Files   int
	Code    int
	Comment int
	Blank   int
	Total   int
}

func (t *LineTally) add(o LineTally) {
	t.Code += o.Code
	t.Comment += o.Comment
	t.Blank += o.Blank
	t.Total += o.Total
}

// CountLines classifies each line of src. Comment markers inside string
// literals are not recognized.
func CountLines(src string, syntax commentSyntax) LineTally {
	var t LineTally
	if src == "" {
		return t
	}
	lines := strings.Split(src, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	closing := "" // non-empty while inside a block comment
	for _, line := range lines {
		t.Total++
		s := strings.TrimSpace(line)
		if s == "" {
			if closing != "" {
				t.Comment++
			} else {
				t.Blank++
			}
			continue
		}

		hasCode, hasComment := false, false
		for s != "" {
			if closing != "" {
				hasComment = true
				idx := strings.Index(s, closing)
				if idx < 0 {
					break
				}
				s = strings.TrimSpace(s[idx+len(closing):])
				closing = ""
				continue
			}

			pos, marker, isBlock := syntax.next(s)
			if pos < 0 {
				hasCode = true
				break
			}
			if strings.TrimSpace(s[:pos]) != "" {
				hasCode = true
			}
			hasComment = true
			if !isBlock {
				break
			}
			s = s[pos+len(marker[0]):]
			closing = marker[1]
		}

		if hasCode {
			t.Code++
		}
		if hasComment {
			t.Comment++
		}
	}
	return t
}

// next finds the earliest comment opener in s.
func (c commentSyntax) next(s string) (int, [2]string, bool) {
	best, marker, isBlock := -1, [2]string{}, false
	for _, m := range c.line {
		if i := strings.Index(s, m); i >= 0 && (best < 0 || i < best) {
			best, marker, isBlock = i, [2]string{m, ""}, false
		}
	}
	for _, b := range c.block {
		if i := strings.Index(s, b[0]); i >= 0 && (best < 0 || i < best) {
			best, marker, isBlock = i, b, true
		}
	}
	return best, marker, isBlock
}
