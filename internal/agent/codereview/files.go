package codereview

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// supportedExtensions lists the source file types the agent reviews
var supportedExtensions = map[string]bool{
	".py": true, ".js": true, ".ts": true, ".jsx": true, ".tsx": true,
	".go": true, ".rs": true, ".java": true, ".cpp": true, ".c": true,
	".rb": true, ".php": true, ".swift": true, ".kt": true,
}

// defaultExcludes are path fragments always skipped during collection
var defaultExcludes = []string{
	"node_modules", "venv", ".git", "__pycache__", "dist", "build",
}

// collectFiles walks root and returns reviewable source files in
// deterministic order, honoring include and exclude patterns.
func collectFiles(root string, include, exclude []string) ([]string, error) {
	excludes := append([]string{}, defaultExcludes...)
	excludes = append(excludes, exclude...)

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !supportedExtensions[filepath.Ext(path)] {
			return nil
		}
		for _, ex := range excludes {
			if strings.Contains(path, ex) {
				return nil
			}
		}
		if len(include) > 0 && !matchesAny(path, include) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func matchesAny(path string, patterns []string) bool {
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
	}
	return false
}
