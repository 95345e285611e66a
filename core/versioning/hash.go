// Package versioning decides whether an upload becomes a new project version.
package versioning

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// SourceDir is the conventional source folder inside an upload.
const SourceDir = "src"

// SourceRoot returns dir/src when it exists as a directory, otherwise dir.
func SourceRoot(dir string) string {
	candidate := filepath.Join(dir, SourceDir)
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		return candidate
	}
	return dir
}

// HashTree hashes the bytes of every regular file under root.
// Files are visited in lexical path order; symlinks and other special files
// are skipped. Paths do not contribute to the hash.
func HashTree(root string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return hashFile(h, path)
	})
	if err != nil {
		return "", fmt.Errorf("failed to hash source tree %s: %w", root, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	_, err = io.Copy(w, f)
	return err
}
