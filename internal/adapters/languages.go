package adapters

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/qualityscore/internal/contract"
	"github.com/huangsam/qualityscore/schema"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/src-d/enry/v2"
)

// languageByExt maps source extensions to the languages with dedicated adapters.
var languageByExt = map[string]schema.Language{
	".js":   schema.JavaScript,
	".jsx":  schema.JavaScript,
	".mjs":  schema.JavaScript,
	".cjs":  schema.JavaScript,
	".ts":   schema.JavaScript,
	".tsx":  schema.JavaScript,
	".py":   schema.Python,
	".java": schema.Java,
}

// DetectLanguages lists the supported languages present under root, in
// schema.LanguagePriority order. Vendored, excluded and gitignored paths are skipped.
func DetectLanguages(root string, excludes []string) ([]schema.Language, error) {
	found := make(map[schema.Language]bool)
	err := walkSources(root, excludes, func(_, rel string) error {
		if lang, ok := languageByExt[strings.ToLower(filepath.Ext(rel))]; ok {
			found[lang] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var langs []schema.Language
	for _, lang := range schema.LanguagePriority {
		if found[lang] {
			langs = append(langs, lang)
		}
	}
	return langs, nil
}

// PrimaryLanguage returns the highest priority language, or "" when none was found.
func PrimaryLanguage(langs []schema.Language) schema.Language {
	for _, lang := range schema.LanguagePriority {
		for _, l := range langs {
			if l == lang {
				return lang
			}
		}
	}
	return ""
}

// walkSources calls fn for each regular file under root that survives the
// ignore rules. rel is the slash separated path relative to root.
func walkSources(root string, excludes []string, fn func(path, rel string) error) error {
	gi := loadGitignore(root)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			dir := rel + "/"
			if skipped(dir, excludes, gi) || enry.IsVendor(dir) || enry.IsDotFile(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || skipped(rel, excludes, gi) || enry.IsVendor(rel) {
			return nil
		}
		return fn(path, rel)
	})
}

func skipped(rel string, excludes []string, gi *ignore.GitIgnore) bool {
	if contract.ShouldIgnore(rel, excludes) {
		return true
	}
	return gi != nil && gi.MatchesPath(rel)
}

// loadGitignore compiles root/.gitignore, or returns nil when there is none.
func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
