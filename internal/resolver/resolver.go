package resolver

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/jstrace/domain"
	"github.com/ludo-technologies/jstrace/internal/constants"
)

// Resolver maps import specifiers to canonical module paths. Canonical
// paths are project-root-relative, slash-separated, and unique per
// reachable module file.
type Resolver struct {
	projectRoot string
	extensions  []string
}

// New creates a Resolver anchored at projectRoot. The root is made
// absolute and symlink-resolved so canonicalization is stable no matter
// how the root was spelled.
func New(projectRoot string, extensions []string) (*Resolver, error) {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrIO, fmt.Sprintf("absolutize project root %s", projectRoot), err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrIO, fmt.Sprintf("canonicalize project root %s", projectRoot), err)
	}
	if len(extensions) == 0 {
		extensions = constants.DefaultExtensions
	}
	return &Resolver{
		projectRoot: resolved,
		extensions:  extensions,
	}, nil
}

// Root returns the absolute, symlink-resolved project root.
func (r *Resolver) Root() string {
	return r.projectRoot
}

// Abs joins a canonical path back onto the project root.
func (r *Resolver) Abs(canonicalPath string) string {
	return filepath.Join(r.projectRoot, filepath.FromSlash(canonicalPath))
}

// Resolve maps a specifier, seen in the module at currentPath (a
// canonical path), to the canonical path of the target module.
// Specifiers beginning with "." or ".." resolve relative to the
// importing module's directory; anything else is tried relative to the
// project root, which makes bare package specifiers fail naturally.
func (r *Resolver) Resolve(currentPath, specifier string) (string, error) {
	if specifier == "" {
		return "", domain.NewDomainError(domain.ErrResolve, "empty specifier", nil)
	}

	var base string
	if isRelative(specifier) {
		base = filepath.Join(r.projectRoot, filepath.FromSlash(path.Dir(currentPath)))
	} else {
		base = r.projectRoot
	}
	candidate := filepath.Join(base, filepath.FromSlash(strings.TrimPrefix(specifier, "/")))

	found, ok := r.probe(candidate)
	if !ok {
		return "", domain.NewDomainError(domain.ErrResolve,
			fmt.Sprintf("specifier %q in %s does not resolve to a file", specifier, currentPath), nil)
	}

	return r.Canonical(found)
}

// Canonical converts an absolute file path into its canonical form.
// The path is symlink-resolved and must remain under the project root.
func (r *Resolver) Canonical(absPath string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", domain.NewDomainError(domain.ErrResolve, fmt.Sprintf("canonicalize %s", absPath), err)
	}
	prefix := r.projectRoot + string(filepath.Separator)
	if !strings.HasPrefix(resolved, prefix) {
		return "", domain.NewDomainError(domain.ErrResolve,
			fmt.Sprintf("%s escapes the project root %s", resolved, r.projectRoot), nil)
	}
	return filepath.ToSlash(strings.TrimPrefix(resolved, prefix)), nil
}

// probe tries the literal path, then the path with each recognized
// extension appended, then an index file inside a directory.
func (r *Resolver) probe(candidate string) (string, bool) {
	if isRegularFile(candidate) {
		return candidate, true
	}
	for _, ext := range r.extensions {
		withExt := candidate + ext
		if isRegularFile(withExt) {
			return withExt, true
		}
	}
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		for _, ext := range r.extensions {
			index := filepath.Join(candidate, "index"+ext)
			if isRegularFile(index) {
				return index, true
			}
		}
	}
	return "", false
}

func isRelative(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

func isRegularFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
