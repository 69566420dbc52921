package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bxt04/studentpipe/internal/pkg/logger"
)

// settleDelay gives writers time to finish before a newly created file is
// read. CSV drops are small; a fixed delay is enough.
const settleDelay = 500 * time.Millisecond

const (
	processedDir = "processed"
	failedDir    = "failed"
)

// Watcher ingests every CSV dropped into a directory. Files already
// present at startup are swept first, then fsnotify create events drive
// the rest. Handled files move to processed/ or failed/ subdirectories so
// a restart never re-ingests them.
type Watcher struct {
	dir      string
	producer *Producer
}

func NewWatcher(dir string, producer *Producer) *Watcher {
	return &Watcher{dir: dir, producer: producer}
}

// Run blocks until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	for _, sub := range []string{processedDir, failedDir} {
		if err := os.MkdirAll(filepath.Join(w.dir, sub), 0o755); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", sub, err)
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create directory watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	if err := w.sweep(ctx); err != nil {
		return err
	}

	logger.Info().Str("dir", w.dir).Msg("Watching for source files")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !isCSV(event.Name) {
				continue
			}
			time.Sleep(settleDelay)
			w.ingest(ctx, event.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("Directory watcher error")
		}
	}
}

// sweep ingests files that were already in the directory before watching
// started
func (w *Watcher) sweep(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", w.dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isCSV(entry.Name()) {
			continue
		}
		w.ingest(ctx, filepath.Join(w.dir, entry.Name()))
	}
	return nil
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	log := logger.WithField("file", filepath.Base(path))

	rows, err := w.producer.PublishFile(ctx, path)
	if err != nil {
		log.Error().Err(err).Msg("Failed to ingest source file")
		w.move(path, failedDir)
		return
	}

	log.Info().Int("rows", rows).Msg("Source file ingested")
	w.move(path, processedDir)
}

func (w *Watcher) move(path, sub string) {
	dest := filepath.Join(w.dir, sub, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		logger.Error().Err(err).Str("file", path).Msg("Failed to move handled file")
	}
}

func isCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}
