// Package batch replays key scripts against many files concurrently.
package batch

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/plainedit/pkg/config"
	"github.com/yaklabco/plainedit/pkg/filehandle"
)

// Task asks for Script to be typed into the file at Path, starting with the
// cursor after the last character.
type Task struct {
	Path   string
	Script string
}

// Options controls a batch run.
type Options struct {
	// Tasks are processed as given. When empty, files are discovered under
	// Paths and each receives Script.
	Tasks []Task

	// Script is typed into every discovered file.
	Script string

	// Paths are files or directories to discover. Defaults to ".".
	Paths []string

	// WorkingDir is the base directory used to resolve relative paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions limits discovery to these extensions (with leading dot).
	// Empty means every file; binary files are skipped when opened.
	Extensions []string

	// IncludeGlobs, when set, must match a file's path relative to WorkingDir.
	IncludeGlobs []string

	// ExcludeGlobs skip files or directories. These merge the config's
	// ignore list and --ignore flags.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means runtime.NumCPU().
	Jobs int

	// DryRun computes edits and diffs without writing anything.
	DryRun bool

	// Saver persists changed files. Defaults to an fsutil.Disk configured
	// from Config.
	Saver filehandle.Saver

	// Config is the resolved configuration for this run.
	Config *config.Config

	Logger *log.Logger
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
