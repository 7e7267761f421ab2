package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/plainedit/internal/configloader"
	"github.com/yaklabco/plainedit/internal/logging"
	"github.com/yaklabco/plainedit/internal/ui/pretty"
	"github.com/yaklabco/plainedit/pkg/config"
	"github.com/yaklabco/plainedit/pkg/filehandle"
	"github.com/yaklabco/plainedit/pkg/fsutil"
	"github.com/yaklabco/plainedit/pkg/throttle"
)

// Sentinel errors mapped to exit codes.
var (
	// ErrConfig wraps configuration failures.
	ErrConfig = errors.New("configuration error")

	// ErrUsage reports invalid command-line usage.
	ErrUsage = errors.New("invalid usage")

	// ErrReplayFailures is returned when some files of a replay failed.
	ErrReplayFailures = errors.New("replay failed for some files")
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves the configuration for a command. cli holds the values
// set by the command's own flags; the global --color and --log-level flags
// are folded in here.
func loadConfig(cmd *cobra.Command, cli *config.Config) (*config.Config, error) {
	if cli == nil {
		cli = &config.Config{}
	}
	flags := cmd.Flags()
	if flags.Changed("color") {
		color, _ := flags.GetString("color")
		cli.Color = config.ColorMode(color)
	}
	if flags.Changed("log-level") {
		level, _ := flags.GetString("log-level")
		cli.LogLevel = level
	}

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}
	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cli,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	cfg := loadResult.Config

	if debug, _ := flags.GetBool("debug"); !debug {
		logging.SetLevel(cfg.LogLevel)
	}
	logger := logging.Default()
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}
	logger.Debug("configuration loaded", logging.FieldConfig, cfg.String())

	return cfg, nil
}

func newStyles(cmd *cobra.Command, cfg *config.Config) *pretty.Styles {
	return pretty.NewStyles(pretty.IsColorEnabled(string(cfg.Color), cmd.OutOrStdout()))
}

// newWriter returns the throttled writer all saves go through.
func newWriter(cfg *config.Config, logger *log.Logger) *throttle.Writer {
	return throttle.New(throttle.Options{
		Storage:       fsutil.NewDisk(cfg.Save.Backups.Enabled, cfg.Save.Backups.Mode),
		SkipUnchanged: cfg.Save.SkipUnchanged,
		Logger:        logger,
	})
}

// gatedSaver forwards saves until it is closed off.
type gatedSaver struct {
	target  filehandle.Saver
	discard bool
}

func (s *gatedSaver) Save(ctx context.Context, path, content string) error {
	if s.discard || s.target == nil {
		return nil
	}
	if err := s.target.Save(ctx, path, content); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// logClose closes a read-only resource and logs a failure. Such a failure
// cannot change what the command printed, so it is not returned.
func logClose(ctx context.Context, logger *log.Logger, path string, closeFn func(context.Context) error) {
	if err := closeFn(ctx); err != nil {
		logger.Warn("close failed", logging.FieldPath, path, logging.FieldError, err)
	}
}

// readOnly is a saver that never writes. Sessions opened only for display
// use it so closing them leaves the file alone.
func readOnly() filehandle.Saver {
	return &gatedSaver{discard: true}
}
