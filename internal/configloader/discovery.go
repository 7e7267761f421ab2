package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigPaths represents discovered configuration file paths. Missing files
// are empty strings.
type ConfigPaths struct {
	// System is the system-wide config path (e.g., /etc/plainedit/config.yaml).
	System string

	// User is the user-level config path (e.g., ~/.config/plainedit/config.yaml).
	User string

	// Project is the project-level config path (e.g., ./.plainedit.yml).
	Project string

	// Explicit is a config path provided via --config flag.
	Explicit string
}

// All returns the non-empty paths in load order.
func (p *ConfigPaths) All() []string {
	var all []string
	for _, path := range []string{p.System, p.User, p.Project, p.Explicit} {
		if path != "" {
			all = append(all, path)
		}
	}
	return all
}

// projectConfigNames are the project config file names, in order of preference.
//
//nolint:gochecknoglobals // Read-only lookup table.
var projectConfigNames = []string{
	".plainedit.yml",
	".plainedit.yaml",
	"plainedit.yml",
	"plainedit.yaml",
}

//nolint:gochecknoglobals // Read-only lookup table.
var vcsRootMarkers = []string{".git", ".hg", ".svn"}

// DiscoverPaths finds configuration files in standard locations:
//   - System config at /etc/plainedit/config.{yaml,yml}
//   - User config at $XDG_CONFIG_HOME/plainedit/config.{yaml,yml}
//   - Project config by searching upward from workDir
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  findConfigInDir(systemConfigDir()),
		User:    findConfigInDir(userConfigDir()),
		Project: project,
	}, nil
}

func systemConfigDir() string {
	if runtime.GOOS == "windows" {
		programData := os.Getenv("ProgramData")
		if programData == "" {
			programData = `C:\ProgramData`
		}
		return filepath.Join(programData, "plainedit")
	}
	return "/etc/plainedit"
}

func userConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "plainedit")
}

func findConfigInDir(dir string) string {
	if dir == "" {
		return ""
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		if path := filepath.Join(dir, name); fileExists(path) {
			return path
		}
	}
	return ""
}

// FindProjectConfig searches upward from startDir for a project config file.
// The search stops at a VCS root, the home directory, or the filesystem root.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		var err error
		startDir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	// An unknown home directory just disables that boundary.
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context cancelled: %w", err)
		}

		for _, name := range projectConfigNames {
			if path := filepath.Join(dir, name); fileExists(path) {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if isVCSRoot(dir) || (home != "" && dir == home) || parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		info, err := os.Stat(filepath.Join(dir, marker))
		if err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
