package batch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/samber/lo"

	"github.com/yaklabco/plainedit/pkg/fsutil"
)

// matcher tests slash-separated relative paths against compiled globs.
// Patterns without a slash also match the base name.
type matcher struct {
	globs []glob.Glob
	base  []bool
}

func compileGlobs(patterns []string) (*matcher, error) {
	m := &matcher{}
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile glob %q: %w", pattern, err)
		}
		m.globs = append(m.globs, g)
		m.base = append(m.base, !strings.Contains(pattern, "/"))
	}
	return m, nil
}

func (m *matcher) empty() bool {
	return len(m.globs) == 0
}

func (m *matcher) match(relPath string, dir bool) bool {
	relPath = filepath.ToSlash(relPath)
	name := relPath[strings.LastIndex(relPath, "/")+1:]
	for i, g := range m.globs {
		if g.Match(relPath) || (m.base[i] && g.Match(name)) {
			return true
		}
		if dir && g.Match(relPath+"/") {
			return true
		}
	}
	return false
}

type walker struct {
	ctx        context.Context
	workDir    string
	extensions []string
	include    *matcher
	exclude    *matcher
	follow     bool
	files      []string
}

// Discover finds files matching opts. It returns a sorted list of absolute
// paths without duplicates.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	include, err := compileGlobs(opts.IncludeGlobs)
	if err != nil {
		return nil, err
	}
	exclude, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return nil, err
	}

	w := &walker{
		ctx:        ctx,
		workDir:    workDir,
		extensions: opts.Extensions,
		include:    include,
		exclude:    exclude,
		follow:     opts.FollowSymlinks,
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		path := input
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		path = filepath.Clean(path)

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}
		if info.IsDir() {
			if err := w.walk(path); err != nil {
				return nil, err
			}
			continue
		}
		if w.matches(path) {
			w.files = append(w.files, path)
		}
	}

	files := lo.Uniq(w.files)
	sort.Strings(files)
	return files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

func (w *walker) rel(path string) string {
	rel, err := filepath.Rel(w.workDir, path)
	if err != nil {
		return path
	}
	return rel
}

func (w *walker) walk(root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")
		if entry.IsDir() {
			if hidden || w.exclude.match(w.rel(path), true) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				// Broken symlink.
				return nil //nolint:nilerr // Intentionally skip broken symlinks
			}
			if info.IsDir() {
				if !w.follow {
					return nil
				}
				target, err := filepath.EvalSymlinks(path)
				if err != nil {
					return nil //nolint:nilerr // Intentionally skip unresolvable symlinks
				}
				return w.walk(target)
			}
		}

		if w.matches(path) {
			w.files = append(w.files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

func (w *walker) matches(path string) bool {
	if strings.HasSuffix(path, fsutil.BackupSuffix) {
		return false
	}
	if len(w.extensions) > 0 {
		ext := strings.ToLower(filepath.Ext(path))
		if !lo.ContainsBy(w.extensions, func(e string) bool { return strings.ToLower(e) == ext }) {
			return false
		}
	}
	rel := w.rel(path)
	if w.exclude.match(rel, false) {
		return false
	}
	return w.include.empty() || w.include.match(rel, false)
}
