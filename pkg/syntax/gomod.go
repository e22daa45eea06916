package syntax

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// maxUpwardSearchLevels limits how far up the directory tree to look for go.mod.
const maxUpwardSearchLevels = 10

// ErrNoGoMod is returned when no go.mod is found above a directory.
var ErrNoGoMod = errors.New("no go.mod found")

// GoModError reports a go.mod that exists but cannot be parsed, most often
// because its go directive is not a valid version.
type GoModError struct {
	Path string
	Raw  string // argument of the go line as written, "" if none was found
	Err  error
}

func (e *GoModError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *GoModError) Unwrap() error {
	return e.Err
}

// DetectGoVersion returns the go directive of the nearest go.mod at or above
// dir, e.g. "1.22". It returns "" and no error when go.mod has no go directive.
// A go.mod that does not parse yields a *GoModError; read failures are
// returned wrapped.
func DetectGoVersion(dir string) (string, error) {
	path, err := findGoMod(dir)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	f, err := modfile.ParseLax(path, data, nil)
	if err != nil {
		return "", &GoModError{Path: path, Raw: rawGoDirective(data), Err: err}
	}
	if f.Go == nil {
		return "", nil
	}
	return f.Go.Version, nil
}

func findGoMod(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for i := 0; i < maxUpwardSearchLevels; i++ {
		candidate := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%w above %s", ErrNoGoMod, start)
}

// rawGoDirective finds the go line of a go.mod without validating it.
func rawGoDirective(data []byte) string {
	for line := range strings.Lines(string(data)) {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "go" {
			return fields[1]
		}
	}
	return ""
}
