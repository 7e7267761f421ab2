package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/plainedit/internal/cli"
)

// runCLI executes the root command with an isolated config file and returns
// the combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile := filepath.Join(t.TempDir(), ".plainedit.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("log_level: error\n"), 0o644))

	cmd := cli.NewRootCommand(testInfo())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", cfgFile, "--color", "never"}, args...))

	err := cmd.Execute()
	return stdout.String() + stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestIntegration_EditWritesFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "notes.txt", "abc\ndef")

	_, err := runCLI(t, "edit", "--keys", "X", path)
	require.NoError(t, err)

	assert.Equal(t, "abc\ndefX", readFile(t, path))
}

func TestIntegration_EditKeepsCRLF(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "dos.txt", "a\r\nb")

	_, err := runCLI(t, "edit", "--keys", "{Enter}c", path)
	require.NoError(t, err)

	assert.Equal(t, "a\r\nb\r\nc", readFile(t, path))
}

func TestIntegration_EditDryRunShowsDiff(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "notes.txt", "abc\ndef")

	output, err := runCLI(t, "edit", "--keys", "X", "--dry-run", path)
	require.NoError(t, err)

	assert.Contains(t, output, "-def")
	assert.Contains(t, output, "+defX")
	assert.Equal(t, "abc\ndef", readFile(t, path), "dry run must not write")
}

func TestIntegration_EditPrintAndJournal(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "notes.txt", "abc")

	output, err := runCLI(t, "edit", "--keys", "{Home}>", "--print", "--journal", path)
	require.NoError(t, err)

	assert.Contains(t, output, ">abc")
	assert.Contains(t, output, `insert ">"`)
	assert.Equal(t, ">abc", readFile(t, path))
}

func TestIntegration_EditFromKeysFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "abc")
	script := writeFile(t, dir, "fix.keys", "{Backspace}{Backspace}Z")

	_, err := runCLI(t, "edit", "--keys-file", script, path)
	require.NoError(t, err)

	assert.Equal(t, "aZ", readFile(t, path))
}

func TestIntegration_EditRejectsBadScripts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"unknown key", []string{"--keys", "{Nope}"}, cli.ExitInvalidUsage},
		{"no script", nil, cli.ExitInvalidUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, t.TempDir(), "notes.txt", "abc")

			_, err := runCLI(t, append(append([]string{"edit"}, tt.args...), path)...)
			require.Error(t, err)
			assert.Equal(t, tt.code, cli.ExitCodeFromError(err))
			assert.Equal(t, "abc", readFile(t, path))
		})
	}
}

func TestIntegration_EditMissingFile(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, "edit", "--keys", "x", filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Equal(t, cli.ExitIOError, cli.ExitCodeFromError(err))
}

func TestIntegration_ReplayDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := writeFile(t, dir, "a.txt", "one")
	second := writeFile(t, dir, "b.txt", "two")
	other := writeFile(t, dir, "c.md", "three")

	output, err := runCLI(t, "replay", "--keys", "!", "--ext", "txt", "--format", "summary", dir)
	require.NoError(t, err)

	assert.Equal(t, "one!", readFile(t, first))
	assert.Equal(t, "two!", readFile(t, second))
	assert.Equal(t, "three", readFile(t, other))
	assert.Contains(t, output, "Replay completed")
}

func TestIntegration_ReplayDryRunTable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "one")

	output, err := runCLI(t, "replay", "--keys", "!", "--dry-run", dir)
	require.NoError(t, err)

	assert.Equal(t, "one", readFile(t, path))
	assert.Contains(t, output, "FILE")
	assert.Contains(t, output, "changed")
}

func TestIntegration_ReplayManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := writeFile(t, dir, "a.txt", "one")
	second := writeFile(t, dir, "b.txt", "two")
	manifest := writeFile(t, dir, "edits.txt",
		"# per-file scripts\na.txt \"{Home}> \"\nb.txt \"{Backspace}o\"\n")

	_, err := runCLI(t, "replay", "--manifest", manifest, "--format", "diff")
	require.NoError(t, err)

	assert.Equal(t, "> one", readFile(t, first))
	assert.Equal(t, "two", readFile(t, second))
}

func TestIntegration_ReplayFailureIsReported(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", "ok")
	manifest := writeFile(t, dir, "edits.txt", "good.txt \"!\"\nmissing.txt \"!\"\n")

	_, err := runCLI(t, "replay", "--manifest", manifest)
	require.ErrorIs(t, err, cli.ErrReplayFailures)
	assert.Equal(t, cli.ExitFailures, cli.ExitCodeFromError(err))
	assert.Equal(t, "ok!", readFile(t, good))
}

func TestIntegration_ReplayRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, "replay", "--keys", "x", "--format", "xml", t.TempDir())
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestIntegration_Cat(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "tabs.txt", "a\tb\nc")

	output, err := runCLI(t, "cat", "-n", path)
	require.NoError(t, err)
	assert.Contains(t, output, "1 │ a   b")
	assert.Contains(t, output, "2 │ c")

	output, err = runCLI(t, "cat", "--keys", "{Up}{Home}", path)
	require.NoError(t, err)
	assert.Contains(t, output, "|a   b")
	assert.Equal(t, "a\tb\nc", readFile(t, path), "cat never writes")
}

func TestIntegration_Info(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	text := writeFile(t, dir, "dos.txt", "abc\r\ndefgh")
	blob := writeFile(t, dir, "blob.bin", "\x00\x01\x00\xff")

	output, err := runCLI(t, "info", text, blob)
	require.NoError(t, err)

	assert.Contains(t, output, "crlf")
	assert.Contains(t, output, "editable:")
	assert.Contains(t, output, "no (binary or not UTF-8)")
}

func TestIntegration_InitAndConfigShow(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, ".plainedit.yml")

	_, err := runCLI(t, "init", "--output", target)
	require.NoError(t, err)
	assert.Contains(t, readFile(t, target), "newline: auto")

	_, err = runCLI(t, "init", "--output", target)
	require.Error(t, err, "init refuses to overwrite without --force")

	_, err = runCLI(t, "init", "--output", target, "--force", "--full")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, target), "tab_width")

	output, err := runCLI(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, output, "newline:")
}

func TestIntegration_InitRejectsFormat(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, "init", "--format", "toml", "--output", filepath.Join(t.TempDir(), "x"))
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestIntegration_KeysJSON(t *testing.T) {
	t.Parallel()

	output, err := runCLI(t, "keys", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, output, `"name": "enter"`)
	assert.Contains(t, output, `"name": "backspace"`)
}

func TestIntegration_ConfigEnv(t *testing.T) {
	t.Parallel()

	output, err := runCLI(t, "config", "env")
	require.NoError(t, err)
	assert.Contains(t, output, "PLAINEDIT_")
}
