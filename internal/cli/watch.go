package cli

import (
	"context"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/file"
)

// RunWatch recompiles and reruns every input whenever the program file changes.
// A run still going when the file changes is cancelled. Compile errors are
// reported and the watcher waits for a fix. It returns when ctx is done.
func RunWatch(ctx context.Context, opts RunOptions) error {
	logger := opts.logger()
	out := opts.stdout()

	src := file.NewSource(opts.Program)
	watchCh, err := src.Watch(ctx)
	if err != nil {
		return err
	}

	engine := createEngine(opts, logger, opts.Hooks)

	logger.Info("Starting watcher", "path", opts.Program)
	printSystemMessage(out, "Watching '%s'.", opts.Program)

	for runWatchIteration(ctx, opts, engine, src, watchCh) {
		logger.Info("Watcher restarting")
	}
	return nil
}

// runWatchIteration runs once, then waits for the next change.
// It reports false when the watcher should stop.
func runWatchIteration(ctx context.Context, opts RunOptions, engine *turing.Engine, src *file.Source, watchCh <-chan string) bool {
	logger := opts.logger()
	out := opts.stdout()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := runOnce(runCtx, opts, engine, src)
		done <- err
	}()

	select {
	case <-ctx.Done():
		cancel()
		<-done
		return false
	case path, ok := <-watchCh:
		cancel()
		<-done
		if !ok {
			return false
		}
		printSystemMessage(out, "Change detected in '%s'.", path)
		return true
	case err := <-done:
		if err != nil && !isInterrupted(err) {
			logger.Error("Run failed", "err", err)
			printSystemMessage(out, "Error: %v", err)
		}
	}

	printSystemMessage(out, "Waiting for changes...")
	select {
	case <-ctx.Done():
		return false
	case path, ok := <-watchCh:
		if !ok {
			return false
		}
		printSystemMessage(out, "Change detected in '%s'.", path)
		return true
	}
}
