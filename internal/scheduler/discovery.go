package scheduler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ludo-technologies/jstrace/domain"
	"github.com/ludo-technologies/jstrace/internal/constants"
	"github.com/ludo-technologies/jstrace/internal/resolver"
)

// CollectCandidates walks the project root and returns the canonical
// paths of every source file with a recognized extension, honoring the
// root .gitignore and skipping excluded directories. I/O failures
// during the walk are fatal.
func CollectCandidates(res *resolver.Resolver, extensions, excludeDirs []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = constants.DefaultExtensions
	}
	if excludeDirs == nil {
		excludeDirs = constants.DefaultExcludeDirs
	}
	root := res.Root()
	gi := loadGitIgnore(root)

	var candidates []string
	err := filepath.Walk(root, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return domain.NewDomainError(domain.ErrIO, fmt.Sprintf("walk %s", filePath), err)
		}

		// gitignore check (relative path required)
		if gi != nil {
			relPath, relErr := filepath.Rel(root, filePath)
			if relErr == nil && relPath != "." && gi.MatchesPath(relPath) {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if info.IsDir() {
			dirName := filepath.Base(filePath)
			for _, excluded := range excludeDirs {
				if excluded == dirName {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !hasSourceExtension(filePath, extensions) {
			return nil
		}

		canonical, canErr := res.Canonical(filePath)
		if canErr != nil {
			// Broken symlinks and files that escape the root are not
			// candidates
			return nil
		}
		candidates = append(candidates, canonical)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(candidates)
	return candidates, nil
}

// hasSourceExtension matches against the configured extension set.
// Multi-dot extensions like ".d.ts" are matched by suffix.
func hasSourceExtension(path string, extensions []string) bool {
	lower := strings.ToLower(filepath.Base(path))
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) && lower != ext {
			return true
		}
	}
	return false
}

// loadGitIgnore loads a .gitignore file from the root directory.
// Returns nil if the file does not exist or cannot be read.
func loadGitIgnore(root string) *ignore.GitIgnore {
	gitignorePath := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(gitignorePath)
	if err != nil {
		return nil
	}
	return gi
}
