package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/plainedit/internal/logging"
	"github.com/yaklabco/plainedit/pkg/config"
	"github.com/yaklabco/plainedit/pkg/filehandle"
	"github.com/yaklabco/plainedit/pkg/fsutil"
	"github.com/yaklabco/plainedit/pkg/session"
	"github.com/yaklabco/plainedit/pkg/splice"
)

// Run processes every task concurrently and returns outcomes in task order.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		opts.Config = config.NewConfig()
	}
	if opts.Logger == nil {
		opts.Logger = logging.FromContext(ctx)
	}
	if opts.Saver == nil {
		opts.Saver = fsutil.NewDisk(opts.Config.Save.Backups.Enabled, opts.Config.Save.Backups.Mode)
	}

	tasks := opts.Tasks
	if len(tasks) == 0 {
		files, err := Discover(ctx, opts)
		if err != nil {
			return nil, err
		}
		tasks = make([]Task, 0, len(files))
		for _, path := range files {
			tasks = append(tasks, Task{Path: path, Script: opts.Script})
		}
	}

	result := &Result{Files: make([]FileOutcome, 0, len(tasks))}
	result.Stats.FilesDiscovered = len(tasks)
	if len(tasks) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(tasks))

	type indexed struct {
		index   int
		outcome FileOutcome
	}
	workCh := make(chan int)
	outCh := make(chan indexed)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workCh {
				outcome := process(ctx, tasks[i], opts)
				select {
				case <-ctx.Done():
					return
				case outCh <- indexed{index: i, outcome: outcome}:
				}
			}
		}()
	}

	go func() {
		defer close(workCh)
		for i := range tasks {
			select {
			case <-ctx.Done():
				return
			case workCh <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers finish out of order; slot outcomes back by task index.
	outcomes := make([]*FileOutcome, len(tasks))
	for item := range outCh {
		outcomes[item.index] = &item.outcome
	}
	for _, outcome := range outcomes {
		if outcome != nil {
			result.accumulate(*outcome)
		}
	}

	opts.Logger.Debug("batch finished",
		logging.FieldFiles, len(tasks),
		logging.FieldJobs, jobs,
		logging.FieldEdits, result.Stats.EditsTotal,
	)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("batch cancelled: %w", err)
	}
	return result, nil
}

// taskSaver forwards saves unless the task decided to discard its edits.
type taskSaver struct {
	target  filehandle.Saver
	discard bool
}

func (s *taskSaver) Save(ctx context.Context, path, content string) error {
	if s.discard {
		return nil
	}
	return s.target.Save(ctx, path, content)
}

func process(ctx context.Context, task Task, opts Options) FileOutcome {
	outcome := FileOutcome{Path: task.Path}
	saver := &taskSaver{target: opts.Saver, discard: opts.DryRun}

	s, err := session.Open(ctx, task.Path, session.Options{
		Config: opts.Config,
		Saver:  saver,
		Logger: opts.Logger,
	})
	switch {
	case errors.Is(err, filehandle.ErrNotText), errors.Is(err, session.ErrBareCarriageReturn):
		outcome.Skipped = true
		outcome.Reason = err.Error()
		return outcome
	case err != nil:
		outcome.Error = err
		return outcome
	}

	handle := s.Handle()
	before := handle.Content()
	_, typeErr := s.Type(ctx, task.Script)
	if typeErr == nil && opts.Config.Editor.Strict {
		typeErr = s.Verify(ctx)
	}
	after := handle.Content()

	outcome.Edits = handle.Journal()
	outcome.Changed = before != after
	outcome.Diff = splice.Diff(task.Path, before, after)

	if typeErr != nil {
		outcome.Error = typeErr
	}
	if typeErr != nil || !outcome.Changed {
		saver.discard = true
	}
	outcome.Written = !saver.discard

	if err := s.Close(ctx); err != nil && outcome.Error == nil {
		outcome.Error = err
		outcome.Written = false
	}
	return outcome
}
