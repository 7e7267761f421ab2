package throttle_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/plainedit/pkg/fsutil"
	"github.com/yaklabco/plainedit/pkg/throttle"
)

// gatedStorage blocks every write until release is closed and tracks how
// many writes run at the same time.
type gatedStorage struct {
	mu       sync.Mutex
	files    map[string]bool
	writes   []string
	inFlight int
	peak     int
	started  chan struct{}
	release  chan struct{}
	fail     error
}

func newGatedStorage(paths ...string) *gatedStorage {
	files := make(map[string]bool)
	for _, path := range paths {
		files[path] = true
	}
	return &gatedStorage{
		files:   files,
		started: make(chan struct{}, 100),
		release: make(chan struct{}),
	}
}

func (s *gatedStorage) Exists(_ context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files[path], nil
}

func (s *gatedStorage) WriteAllText(_ context.Context, _ string, content string) error {
	s.mu.Lock()
	s.inFlight++
	s.peak = max(s.peak, s.inFlight)
	s.mu.Unlock()

	s.started <- struct{}{}
	<-s.release

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
	if s.fail != nil {
		return s.fail
	}
	s.writes = append(s.writes, content)
	return nil
}

func (s *gatedStorage) written() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.writes...)
}

func absPath(t *testing.T, name string) string {
	t.Helper()

	path, err := filepath.Abs(name)
	require.NoError(t, err)
	return path
}

func TestCoalescesBurstToLatestContent(t *testing.T) {
	t.Parallel()

	path := absPath(t, "doc.txt")
	storage := newGatedStorage(path)
	writer := throttle.New(throttle.Options{Storage: storage})
	ctx := context.Background()

	require.NoError(t, writer.Save(ctx, path, "v0"))
	<-storage.started

	const burst = 20
	for i := 1; i <= burst; i++ {
		require.NoError(t, writer.Save(ctx, path, fmt.Sprintf("v%d", i)))
	}
	close(storage.release)
	require.NoError(t, writer.Close(ctx))

	writes := storage.written()
	assert.Equal(t, []string{"v0", fmt.Sprintf("v%d", burst)}, writes)
	assert.LessOrEqual(t, int64(len(writes)), int64(burst+1))
	assert.Equal(t, int64(2), writer.Writes())
	assert.Equal(t, 1, storage.peak, "writes to one path never overlap")
	assert.False(t, writer.Pending())
}

func TestConcurrentCallersLastWriteWins(t *testing.T) {
	t.Parallel()

	path := absPath(t, "shared.txt")
	storage := newGatedStorage(path)
	close(storage.release)
	writer := throttle.New(throttle.Options{Storage: storage})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, writer.Save(ctx, path, fmt.Sprintf("c%d", i)))
		}()
	}
	wg.Wait()
	require.NoError(t, writer.Save(ctx, path, "final"))
	require.NoError(t, writer.Close(ctx))

	writes := storage.written()
	require.NotEmpty(t, writes)
	assert.LessOrEqual(t, len(writes), 51)
	assert.Equal(t, "final", writes[len(writes)-1])
	assert.Equal(t, 1, storage.peak)
}

func TestPathsAreIndependent(t *testing.T) {
	t.Parallel()

	first, second := absPath(t, "a.txt"), absPath(t, "b.txt")
	storage := newGatedStorage(first, second)
	writer := throttle.New(throttle.Options{Storage: storage})
	ctx := context.Background()

	require.NoError(t, writer.Save(ctx, first, "a"))
	require.NoError(t, writer.Save(ctx, second, "b"))
	<-storage.started
	<-storage.started

	close(storage.release)
	require.NoError(t, writer.Close(ctx))
	assert.Equal(t, 2, storage.peak, "different paths write in parallel")
	assert.ElementsMatch(t, []string{"a", "b"}, storage.written())
}

func TestMissingFileIsANotice(t *testing.T) {
	t.Parallel()

	storage := newGatedStorage()
	close(storage.release)

	var (
		mu      sync.Mutex
		notices []throttle.Notice
		results []throttle.Result
	)
	writer := throttle.New(throttle.Options{
		Storage: storage,
		Notifier: throttle.NotifierFunc(func(n throttle.Notice) {
			mu.Lock()
			defer mu.Unlock()
			notices = append(notices, n)
		}),
	})

	path := absPath(t, "gone.txt")
	require.NoError(t, writer.Submit(context.Background(), throttle.Request{
		Path:    path,
		Content: "x",
		OnSaved: func(r throttle.Result) {
			mu.Lock()
			defer mu.Unlock()
			results = append(results, r)
		},
	}))
	require.NoError(t, writer.Close(context.Background()))

	require.Len(t, notices, 1)
	assert.Equal(t, throttle.MessageNotFound, notices[0].Message)
	assert.Equal(t, path, notices[0].Path)
	require.Len(t, results, 1)
	assert.False(t, results[0].Written)
	require.NoError(t, results[0].Err)
	assert.Empty(t, storage.written())
}

func TestSkipUnchanged(t *testing.T) {
	t.Parallel()

	path := absPath(t, "same.txt")
	storage := newGatedStorage(path)
	close(storage.release)

	var (
		mu       sync.Mutex
		messages []string
	)
	writer := throttle.New(throttle.Options{
		Storage:       storage,
		SkipUnchanged: true,
		Notifier: throttle.NotifierFunc(func(n throttle.Notice) {
			mu.Lock()
			defer mu.Unlock()
			messages = append(messages, n.Message)
		}),
	})
	ctx := context.Background()

	require.NoError(t, writer.Save(ctx, path, "same"))
	require.NoError(t, writer.Wait(ctx))
	require.NoError(t, writer.Save(ctx, path, "same"))
	require.NoError(t, writer.Wait(ctx))
	require.NoError(t, writer.Save(ctx, path, "different"))
	require.NoError(t, writer.Close(ctx))

	assert.Equal(t, []string{"same", "different"}, storage.written())
	assert.Equal(t, []string{throttle.MessageUnchanged}, messages)
}

func TestWriteFailureIsReported(t *testing.T) {
	t.Parallel()

	path := absPath(t, "bad.txt")
	storage := newGatedStorage(path)
	storage.fail = errors.New("disk full")
	close(storage.release)
	writer := throttle.New(throttle.Options{Storage: storage})

	done := make(chan throttle.Result, 1)
	require.NoError(t, writer.Submit(context.Background(), throttle.Request{
		Path:    path,
		Content: "x",
		OnSaved: func(r throttle.Result) { done <- r },
	}))

	result := <-done
	require.Error(t, result.Err)
	assert.False(t, result.Written)
	require.NoError(t, writer.Close(context.Background()))
}

func TestSubmitAfterClose(t *testing.T) {
	t.Parallel()

	writer := throttle.New(throttle.Options{Storage: newGatedStorage()})
	require.NoError(t, writer.Close(context.Background()))

	err := writer.Save(context.Background(), "x.txt", "x")
	require.ErrorIs(t, err, throttle.ErrClosed)
}

func TestWaitHonorsContext(t *testing.T) {
	t.Parallel()

	path := absPath(t, "slow.txt")
	storage := newGatedStorage(path)
	writer := throttle.New(throttle.Options{Storage: storage})

	require.NoError(t, writer.Save(context.Background(), path, "x"))
	<-storage.started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, writer.Wait(ctx), context.DeadlineExceeded)

	close(storage.release)
	require.NoError(t, writer.Close(context.Background()))
}

func TestDiskStorage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "real.txt")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	writer := throttle.New(throttle.Options{Storage: fsutil.Disk{}})
	require.NoError(t, writer.Save(context.Background(), path, "new"))
	require.NoError(t, writer.Close(context.Background()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}
