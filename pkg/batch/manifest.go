package batch

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
)

// ParseManifest reads one task per line: a path followed by a key script,
// split with shell quoting rules. Unquoted script words are joined with a
// single space, so scripts with runs of spaces need quotes. Blank lines and
// lines starting with '#' are skipped. Relative paths are resolved against
// baseDir.
//
//	notes.txt "{End}{Enter}appended"
//	'my file.txt' "{Home}> "
func ParseManifest(r io.Reader, baseDir string) ([]Task, error) {
	var tasks []Task
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields, err := shlex.Split(text)
		if err != nil {
			return nil, fmt.Errorf("manifest line %d: %w", line, err)
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("manifest line %d: want a path and a script, got %d fields", line, len(fields))
		}

		path := fields[0]
		if !filepath.IsAbs(path) && baseDir != "" {
			path = filepath.Join(baseDir, path)
		}
		tasks = append(tasks, Task{Path: path, Script: strings.Join(fields[1:], " ")})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return tasks, nil
}
