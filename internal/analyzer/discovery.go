package analyzer

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// findSourceFiles walks the configured source directories and returns every
// path matching a configured extension, minus excluded ones, in ascending
// path order. The ordering is load-bearing: it fixes collision resolution
// and the merge order of parallel extraction.
func (a *Analyzer) findSourceFiles() ([]string, error) {
	matcher := ignore.CompileIgnoreLines(a.cfg.ExcludePatterns...)

	var files []string
	for _, dir := range a.cfg.SourceDirs {
		root := filepath.Join(a.cfg.ProjectRoot, dir)
		if _, err := os.Stat(root); os.IsNotExist(err) {
			a.logger.Debug("skipping missing source dir", "dir", root)
			continue
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil || d.IsDir() {
				return walkErr
			}
			if !a.matchesExtension(d.Name()) {
				return nil
			}
			rel, relErr := filepath.Rel(a.cfg.ProjectRoot, path)
			if relErr != nil {
				rel = path
			}
			if matcher.MatchesPath(rel) {
				a.logger.Debug("excluded by pattern", "path", rel)
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

func (a *Analyzer) matchesExtension(name string) bool {
	for _, ext := range a.cfg.Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
