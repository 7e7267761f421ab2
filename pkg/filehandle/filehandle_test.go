package filehandle_test

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/plainedit/pkg/filehandle"
	"github.com/yaklabco/plainedit/pkg/splice"
)

func open(t *testing.T, content string, opts filehandle.Options) (*filehandle.Handle, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	handle, err := filehandle.Open(context.Background(), path, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = handle.Dispose(context.Background()) })
	return handle, path
}

func readAll(t *testing.T, handle *filehandle.Handle) string {
	t.Helper()

	rows, err := handle.Read(context.Background(), 0, 0, handle.PhysicalRowCount(), math.MaxInt)
	require.NoError(t, err)
	return strings.Join(rows, "")
}

func TestOpenScansRows(t *testing.T) {
	t.Parallel()

	handle, _ := open(t, "abc\r\ndefgh\nij", filehandle.Options{})

	assert.Equal(t, 3, handle.PhysicalRowCount())
	assert.Equal(t, 6, handle.PhysicalCharacterLengthOfLongestRow())
	assert.Equal(t, "\r\n", handle.Newline())
	assert.False(t, handle.Dirty())
	assert.NotNil(t, handle.Info())
}

func TestReadWindows(t *testing.T) {
	t.Parallel()

	handle, _ := open(t, "abc\r\ndef", filehandle.Options{})
	ctx := context.Background()

	rows, err := handle.Read(ctx, 0, 0, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc\r\n", "def"}, rows)

	rows, err = handle.Read(ctx, 0, 1, 5, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"bc", "ef"}, rows)

	rows, err = handle.Read(ctx, 1, 7, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, rows)

	_, err = handle.Read(ctx, 2, 0, 1, 1)
	require.ErrorIs(t, err, filehandle.ErrOutOfRange)
	_, err = handle.Read(ctx, 0, -1, 1, 1)
	require.ErrorIs(t, err, filehandle.ErrOutOfRange)
}

func TestInsertShiftsLaterRows(t *testing.T) {
	t.Parallel()

	handle, _ := open(t, "abc\r\ndef", filehandle.Options{})
	ctx := context.Background()

	before, err := handle.RowStart(1)
	require.NoError(t, err)

	require.NoError(t, handle.Insert(ctx, 0, 1, "X"))

	rows, err := handle.Read(ctx, 0, 0, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"aXbc\r\n"}, rows)

	after, err := handle.RowStart(1)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
	assert.True(t, handle.Dirty())
	assert.Equal(t, []splice.Edit{{Row: 0, Column: 1, Insert: "X"}}, handle.Journal())
}

func TestInsertNewlineSplitsRow(t *testing.T) {
	t.Parallel()

	handle, _ := open(t, "abcd\r\nef", filehandle.Options{})
	ctx := context.Background()

	require.NoError(t, handle.Insert(ctx, 0, 2, "\r\n"))

	assert.Equal(t, 3, handle.PhysicalRowCount())
	rows, err := handle.Read(ctx, 0, 0, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"ab\r\n", "cd\r\n", "ef"}, rows)
}

func TestRemoveRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		row      int
		count    int
		expected string
		rows     int
	}{
		{"first of two", "abc\r\ndef", 0, 1, "def", 1},
		{"last of two", "abc\r\ndef", 1, 1, "abc", 1},
		{"middle", "a\nb\nc\n", 1, 1, "a\nc\n", 3},
		{"all", "a\nb", 0, 2, "", 1},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			handle, _ := open(t, testCase.content, filehandle.Options{})
			require.NoError(t, handle.RemoveRows(context.Background(), testCase.row, testCase.count))

			assert.Equal(t, testCase.expected, handle.Content())
			assert.Equal(t, testCase.rows, handle.PhysicalRowCount())
		})
	}
}

func TestRemoveCharacters(t *testing.T) {
	t.Parallel()

	handle, _ := open(t, "ab\r\ncd\r\nef", filehandle.Options{})
	ctx := context.Background()

	require.NoError(t, handle.Remove(ctx, 0, 2, 2))
	assert.Equal(t, "abcd\r\nef", handle.Content())
	assert.Equal(t, 2, handle.PhysicalRowCount())

	require.NoError(t, handle.Remove(ctx, 1, 0, 1))
	assert.Equal(t, "abcd\r\nf", readAll(t, handle))
}

func TestOutOfRangeLeavesIndexUntouched(t *testing.T) {
	t.Parallel()

	handle, _ := open(t, "abc\r\ndef", filehandle.Options{})
	ctx := context.Background()

	for _, err := range []error{
		handle.Insert(ctx, 2, 0, "x"),
		handle.Insert(ctx, 0, 4, "x"),
		handle.Insert(ctx, 0, -1, "x"),
		handle.Remove(ctx, 1, 1, 9),
		handle.RemoveRows(ctx, 1, 2),
		handle.RemoveRows(ctx, 0, 0),
	} {
		require.ErrorIs(t, err, filehandle.ErrOutOfRange)
	}

	assert.Equal(t, "abc\r\ndef", handle.Content())
	assert.Equal(t, 2, handle.PhysicalRowCount())
	assert.Empty(t, handle.Journal())
	assert.False(t, handle.Dirty())
}

func TestReadIsCancellable(t *testing.T) {
	t.Parallel()

	handle, _ := open(t, "a\nb\nc", filehandle.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := handle.Read(ctx, 0, 0, 3, 1)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, handle.PhysicalRowCount())
}

func TestFlushWritesInPlace(t *testing.T) {
	t.Parallel()

	handle, path := open(t, "abc\r\ndef", filehandle.Options{})
	ctx := context.Background()

	require.NoError(t, handle.Insert(ctx, 1, 3, "!"))
	require.NoError(t, handle.Flush(ctx))

	persisted, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, readAll(t, handle), string(persisted))
	assert.False(t, handle.Dirty())
	assert.Empty(t, handle.Journal())
}

type recordingSaver struct {
	mu    sync.Mutex
	saved []string
}

func (s *recordingSaver) Save(_ context.Context, _ string, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, content)
	return nil
}

func TestDispose(t *testing.T) {
	t.Parallel()

	saver := &recordingSaver{}
	handle, _ := open(t, "x", filehandle.Options{Saver: saver})
	ctx := context.Background()

	require.NoError(t, handle.Insert(ctx, 0, 1, "y"))
	require.NoError(t, handle.Dispose(ctx))
	require.NoError(t, handle.Dispose(ctx))

	assert.Equal(t, []string{"xy"}, saver.saved, "dispose flushes exactly once")

	require.ErrorIs(t, handle.Insert(ctx, 0, 0, "z"), filehandle.ErrClosed)
	require.ErrorIs(t, handle.Flush(ctx), filehandle.ErrClosed)
	_, err := handle.Read(ctx, 0, 0, 1, 1)
	require.ErrorIs(t, err, filehandle.ErrClosed)
}

func TestOpenRejectsBinary(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "blob.bin")
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0x01, 0x00, 0xff}, 0o600))

	_, err := filehandle.Open(context.Background(), path, filehandle.Options{})
	require.ErrorIs(t, err, filehandle.ErrNotText)
}

func TestConcurrentEditsAreSerialized(t *testing.T) {
	t.Parallel()

	handle, _ := open(t, "", filehandle.Options{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, handle.Insert(ctx, 0, 0, "a\n"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 51, handle.PhysicalRowCount())
	assert.Equal(t, strings.Repeat("a\n", 50), readAll(t, handle))
}

func TestTerminator(t *testing.T) {
	t.Parallel()

	handle, _ := open(t, "a\r\nb\nc", filehandle.Options{})

	for row, expected := range []int{2, 1, 0} {
		got, err := handle.Terminator(row)
		require.NoError(t, err)
		assert.Equal(t, expected, got, "row %d", row)
	}

	_, err := handle.Terminator(3)
	require.ErrorIs(t, err, filehandle.ErrOutOfRange)
}
