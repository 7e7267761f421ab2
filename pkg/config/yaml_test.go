package config_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/plainedit/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies Ignore slice", func(t *testing.T) {
		original := &config.Config{Ignore: []string{"*.log", "vendor/**"}}

		clone := original.Clone()
		require.NotNil(t, clone)
		clone.Ignore[0] = "changed"
		assert.Equal(t, "*.log", original.Ignore[0])
	})

	t.Run("copies CLI-only fields", func(t *testing.T) {
		original := config.NewConfig()
		original.Jobs = 8
		original.Color = config.ColorNever

		clone := original.Clone()
		assert.Equal(t, 8, clone.Jobs)
		assert.Equal(t, config.ColorNever, clone.Color)
	})
}

func TestYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	original := config.NewConfig()
	original.Newline = config.NewlineCRLF
	original.Editor.TabWidth = 2
	original.Save.Backups.Enabled = true
	original.Jobs = 3

	data, err := original.ToYAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "tab_width: 2")
	assert.NotContains(t, string(data), "jobs", "CLI-only fields are not persisted")

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, config.NewlineCRLF, parsed.Newline)
	assert.Equal(t, 2, parsed.Editor.TabWidth)
	assert.True(t, parsed.Save.Backups.Enabled)
	assert.Zero(t, parsed.Jobs)
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"whitespace only", "  \n", false},
		{"valid", "newline: lf\neditor:\n  strict: true\n", false},
		{"unknown key", "flavor: gfm\n", true},
		{"bad type", "editor:\n  tab_width: wide\n", true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := config.FromYAML([]byte(testCase.input))
			if testCase.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, cfg)
		})
	}
}

func TestToYAMLWithHeader(t *testing.T) {
	t.Parallel()

	data, err := config.NewConfig().ToYAMLWithHeader(config.DefaultTemplateHeader())
	require.NoError(t, err)
	assert.Contains(t, string(data), "# plainedit configuration\n")
	assert.Contains(t, string(data), "newline: auto")
}

func TestNewlineMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode     config.NewlineMode
		detected string
		expected string
	}{
		{config.NewlineLF, "\r\n", "\n"},
		{config.NewlineCRLF, "\n", "\r\n"},
		{config.NewlineAuto, "\r\n", "\r\n"},
		{config.NewlineAuto, "", "\n"},
	}

	for _, testCase := range tests {
		t.Run(string(testCase.mode)+"/"+testCase.detected, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.expected, testCase.mode.Sequence(testCase.detected))
		})
	}

	assert.False(t, config.NewlineMode("cr").IsValid())
	assert.True(t, config.ColorMode("").IsValid())
	assert.False(t, config.ColorMode("sometimes").IsValid())
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	for _, full := range []bool{false, true} {
		data, err := config.GenerateTemplate(config.TemplateOptions{Full: full})
		require.NoError(t, err)

		parsed, err := config.FromYAML(data)
		require.NoError(t, err, "template must parse as config")
		assert.Equal(t, config.NewlineAuto, parsed.Newline)
	}

	data, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "auto", decoded["newline"])
}
