// Package pathutil confines user-supplied paths to the configured
// working-directory root.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	berrors "github.com/bearer-community/bearer-mcp/internal/errors"
)

// Resolve resolves path against root and verifies the result is root itself
// or a descendant of it. Relative paths are taken as relative to root.
// When mustExist is set the resolved path is also required to exist; symlinks
// are followed and the target is re-checked so a link cannot escape the root.
func Resolve(root, path string, mustExist bool) (string, error) {
	const op = "resolve path"

	if root == "" {
		return "", berrors.NewInvalidPath(op, path, errors.New("no working directory root configured"))
	}

	resolved := path
	if resolved == "" {
		resolved = root
	}
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(root, resolved)
	}
	resolved = filepath.Clean(resolved)

	if !contained(root, resolved) {
		return "", berrors.NewInvalidPath(op, path,
			errors.Newf("%s is outside the working directory %s", resolved, root))
	}

	canonical, err := filepath.EvalSymlinks(resolved)
	switch {
	case err == nil:
		canonicalRoot := root
		if cr, rerr := filepath.EvalSymlinks(root); rerr == nil {
			canonicalRoot = cr
		}
		if !contained(canonicalRoot, canonical) {
			return "", berrors.NewInvalidPath(op, path,
				errors.Newf("%s resolves outside the working directory %s", resolved, canonicalRoot))
		}
		resolved = canonical
	case os.IsNotExist(err):
		if mustExist {
			return "", berrors.NewInvalidPath(op, path,
				errors.Newf("path does not exist: %s", resolved))
		}
		// A yet-to-be-created path (e.g. an output file) passes on the
		// lexical check alone; its parent must still exist and stay inside.
		parent, perr := filepath.EvalSymlinks(filepath.Dir(resolved))
		if perr != nil {
			return "", berrors.NewInvalidPath(op, path, errors.Wrap(perr, "parent directory"))
		}
		canonicalRoot := root
		if cr, rerr := filepath.EvalSymlinks(root); rerr == nil {
			canonicalRoot = cr
		}
		if !contained(canonicalRoot, parent) {
			return "", berrors.NewInvalidPath(op, path,
				errors.Newf("%s resolves outside the working directory %s", resolved, canonicalRoot))
		}
		resolved = filepath.Join(parent, filepath.Base(resolved))
	default:
		return "", berrors.NewInvalidPath(op, path, err)
	}

	return resolved, nil
}

func contained(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
