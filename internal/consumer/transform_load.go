package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bxt04/studentpipe/internal/model"
	"github.com/bxt04/studentpipe/internal/pkg/apperrors"
	"github.com/bxt04/studentpipe/internal/pkg/dberrors"
	"github.com/bxt04/studentpipe/internal/pkg/logger"
	"github.com/bxt04/studentpipe/internal/transformer"
)

// StudentStore is the subset of the loader the transform-and-load stage
// depends on.
type StudentStore interface {
	ClassID(code string) (int, bool)
	Upsert(ctx context.Context, student *model.Student) error
}

// TransformLoadHandler consumes validated outcomes, converts the raw fields
// into a typed entity, and upserts it into the destination store. A parse
// failure here means a record the chain should have rejected got through,
// so it is surfaced as a terminal failure rather than silently skipped.
type TransformLoadHandler struct {
	store StudentStore
	pub   Publisher
}

// NewTransformLoadHandler builds the transform-and-load stage handler
func NewTransformLoadHandler(store StudentStore, pub Publisher) *TransformLoadHandler {
	return &TransformLoadHandler{store: store, pub: pub}
}

// Handle implements Handler
func (h *TransformLoadHandler) Handle(ctx context.Context, body []byte) (Decision, error) {
	var result model.ValidationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return Drop, fmt.Errorf("%w: %v", apperrors.ErrMalformedMessage, err)
	}
	if result.RawData == nil {
		return Drop, apperrors.ErrMissingRawData
	}
	raw := result.RawData

	// The class reference rule already rejected unknown codes upstream; a
	// miss here means the lookup tables diverged between the two stages.
	classID, ok := h.store.ClassID(raw.ClassCode)
	if !ok {
		return Drop, fmt.Errorf("%w: %q for student %s", apperrors.ErrUnknownClassCode, raw.ClassCode, raw.StudentID)
	}

	student, err := transformer.Transform(raw, classID)
	if err != nil {
		return Drop, fmt.Errorf("%w: %v", apperrors.ErrTransformFailed, err)
	}

	if err := h.store.Upsert(ctx, student); err != nil {
		if dberrors.IsRetryable(err) {
			return Retry, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
		}
		return Drop, err
	}

	// Tracking only; the transformed queue is not re-consumed by this
	// pipeline. A publish failure is retried, and the redelivered upsert
	// is idempotent.
	if err := h.pub.PublishTransformed(ctx, student); err != nil {
		return Retry, err
	}

	logger.Debug().Str("studentID", student.StudentID).Msg("Student loaded")
	return Ack, nil
}
