package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bxt04/studentpipe/internal/model"
	"github.com/bxt04/studentpipe/internal/pkg/logger"
)

// RawPublisher is the slice of the broker publisher the producer needs
type RawPublisher interface {
	PublishRaw(ctx context.Context, message any) error
}

// Producer reads source files and publishes one raw message per data row
type Producer struct {
	pub RawPublisher
}

func NewProducer(pub RawPublisher) *Producer {
	return &Producer{pub: pub}
}

// PublishFile streams one CSV file into the raw queue and returns the
// number of rows published. A publish failure aborts the file; rows
// already published stay published, downstream idempotency absorbs the
// duplicates on re-run.
func (p *Producer) PublishFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	name := filepath.Base(path)
	published, err := ReadRows(f, name, func(rowNum int, record *model.RawStudent) error {
		if err := p.pub.PublishRaw(ctx, record); err != nil {
			return fmt.Errorf("failed to publish row %d: %w", rowNum, err)
		}
		return nil
	})
	if err != nil {
		return published, fmt.Errorf("failed to ingest %s: %w", name, err)
	}

	logger.Info().
		Str("file", name).
		Int("rows", published).
		Msg("Source file published")
	return published, nil
}
