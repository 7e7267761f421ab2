package configloader

import (
	"slices"

	"github.com/yaklabco/plainedit/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
//   - Scalar values: override overwrites base if override is non-zero
//   - Slices: override replaces base entirely if override is non-nil
//   - Booleans: only true in override is visible, so an override can turn
//     a flag on but never off. Config files are decoded in layers instead
//     and do not go through merge.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Newline != "" {
		result.Newline = override.Newline
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Editor.TabWidth != 0 {
		result.Editor.TabWidth = override.Editor.TabWidth
	}
	if override.Editor.Strict {
		result.Editor.Strict = true
	}
	if override.Save.SkipUnchanged {
		result.Save.SkipUnchanged = true
	}
	if override.Save.Backups.Enabled {
		result.Save.Backups.Enabled = true
	}
	if override.Save.Backups.Mode != "" {
		result.Save.Backups.Mode = override.Save.Backups.Mode
	}
	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Color != "" {
		result.Color = override.Color
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
