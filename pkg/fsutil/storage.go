package fsutil

import (
	"context"
	"fmt"
)

// Disk stores whole-file text on the local file system.
type Disk struct {
	// Backups is consulted before every write; a backup is only taken once
	// per file.
	Backups BackupConfig
}

// Exists reports whether path is an existing file.
func (d Disk) Exists(_ context.Context, path string) (bool, error) {
	return Exists(path)
}

// WriteAllText replaces the content of path atomically, keeping its mode.
func (d Disk) WriteAllText(ctx context.Context, path, content string) error {
	if _, err := CreateBackup(ctx, path, d.Backups); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return WriteAtomic(ctx, path, []byte(content), 0)
}

// Save is WriteAllText under the name file handles expect.
func (d Disk) Save(ctx context.Context, path, content string) error {
	return d.WriteAllText(ctx, path, content)
}

// NewDisk returns a Disk taking backups as configured. An empty mode means
// sidecar.
func NewDisk(enabled bool, mode string) Disk {
	cfg := BackupConfig{Enabled: enabled, Mode: BackupMode(mode)}
	if cfg.Mode == "" {
		cfg.Mode = BackupModeSidecar
	}
	return Disk{Backups: cfg}
}
