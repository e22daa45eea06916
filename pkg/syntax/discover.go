package syntax

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoverOptions controls which files Discover returns.
type DiscoverOptions struct {
	// Include keeps only files whose base name or slash-separated path
	// relative to the root matches one of these patterns. Empty keeps all.
	Include []string
	// Exclude drops matching files; it wins over Include.
	Exclude []string
	// Tests includes _test.go files.
	Tests bool
}

// Discover returns the Go files under the given roots, de-duplicated, in root
// order. A root may be a single file, which is returned as is; files found by
// walking a directory root are sorted. vendor, testdata and dot-directories
// are skipped.
func Discover(roots []string, opts DiscoverOptions) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		var walked []string
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && SkipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(path, ".go") {
				return nil
			}
			if !opts.Tests && strings.HasSuffix(path, "_test.go") {
				return nil
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			rel = filepath.ToSlash(rel)

			if len(opts.Include) > 0 && !matchAny(opts.Include, rel) {
				return nil
			}
			if matchAny(opts.Exclude, rel) {
				return nil
			}
			walked = append(walked, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(walked)
		for _, path := range walked {
			add(path)
		}
	}

	return files, nil
}

// SkipDir reports whether a directory is never scanned: vendor, testdata,
// and names starting with a dot or an underscore.
func SkipDir(name string) bool {
	return name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func matchAny(patterns []string, rel string) bool {
	base := filepath.Base(rel)
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}
