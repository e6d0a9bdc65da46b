package bundler

import (
	"path/filepath"
	"strings"

	"github.com/joshua-decoder/joshua-bundle/pkg/joshua"
)

// PathResolver maps the path token of a file-bearing line to the file to copy
// and to its place in the bundle.
type PathResolver struct {
	// LiteralPrefix treats a token that starts with the origin directory string
	// as already resolved, even when it is not inside that directory
	// (e.g. "/runs/50/x" for origin "/runs/5").
	LiteralPrefix bool
}

// Source returns the path to copy from. Absolute tokens, and tokens already
// inside originDir, are returned unchanged; others are joined to originDir.
func (r PathResolver) Source(originDir string, line joshua.Line) (string, error) {
	token, err := line.Path()
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(token) || r.resolved(originDir, token) {
		return token, nil
	}
	return filepath.Join(originDir, token), nil
}

// Dest returns the flat destination of the line's file inside destDir.
func (r PathResolver) Dest(destDir string, line joshua.Line) (string, error) {
	token, err := line.Path()
	if err != nil {
		return "", err
	}
	return filepath.Join(destDir, filepath.Base(token)), nil
}

func (r PathResolver) resolved(originDir, token string) bool {
	if r.LiteralPrefix {
		return strings.HasPrefix(token, originDir)
	}
	return withinDir(originDir, token)
}

// withinDir reports whether p names root or a path below it, comparing
// cleaned path components rather than raw strings.
func withinDir(root, p string) bool {
	if filepath.IsAbs(root) != filepath.IsAbs(p) {
		return false
	}
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(p))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ResolveSourcePath resolves the source of a file-bearing line using
// component-wise containment.
func ResolveSourcePath(originDir string, line joshua.Line) (string, error) {
	return PathResolver{}.Source(originDir, line)
}

// ResolveDestPath returns the flat bundle path of a file-bearing line.
func ResolveDestPath(destDir string, line joshua.Line) (string, error) {
	return PathResolver{}.Dest(destDir, line)
}
