package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bxt04/studentpipe/internal/model"
	"github.com/bxt04/studentpipe/internal/pkg/apperrors"
	"github.com/bxt04/studentpipe/internal/pkg/logger"
	"github.com/bxt04/studentpipe/internal/validator"
)

// ValidateHandler runs the validation chain over raw records from the raw
// queue. Passing records route to the validated queue, failing records to
// the error queue; either way the outcome is data and the message is acked.
type ValidateHandler struct {
	chain validator.Chain
	pub   Publisher
}

// NewValidateHandler builds the validate stage handler
func NewValidateHandler(chain validator.Chain, pub Publisher) *ValidateHandler {
	return &ValidateHandler{chain: chain, pub: pub}
}

// Handle implements Handler
func (h *ValidateHandler) Handle(ctx context.Context, body []byte) (Decision, error) {
	var raw model.RawStudent
	if err := json.Unmarshal(body, &raw); err != nil {
		return Drop, fmt.Errorf("%w: %v", apperrors.ErrMalformedMessage, err)
	}

	result := h.chain.Run(&raw)

	if result.IsValid {
		if err := h.pub.PublishValidated(ctx, result); err != nil {
			return Retry, err
		}
		logger.Debug().
			Str("studentID", raw.StudentID).
			Int("row", raw.RowNum).
			Msg("Record valid")
		return Ack, nil
	}

	if err := h.pub.PublishError(ctx, result); err != nil {
		return Retry, err
	}
	logger.Debug().
		Str("studentID", raw.StudentID).
		Int("row", raw.RowNum).
		Int("errors", result.ErrorCount()).
		Msg("Record invalid")
	return Ack, nil
}
