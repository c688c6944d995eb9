package record

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	cverr "github.com/reproforge/reproconv/convert/errors"
)

// Run is the explicit conversion context threaded through every component
// call. Each run owns its own error collector and logger, so independent runs
// are safe to execute in parallel; there is no ambient state.
type Run struct {
	ID     string
	Log    *zap.Logger
	Errors *cverr.Collector
}

// NewRun creates a run context with a fresh run ID.
func NewRun(log *zap.Logger) *Run {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.NewString()
	return &Run{
		ID:     id,
		Log:    log.With(zap.String("run_id", id)),
		Errors: &cverr.Collector{},
	}
}

// Fail collects a non-fatal conversion error and logs it.
func (r *Run) Fail(e cverr.ConvertError) {
	r.Errors.Add(e)
	r.Log.Warn("conversion error",
		zap.String("kind", e.Kind.String()),
		zap.String("activity", e.Activity),
		zap.String("field", e.Field),
		zap.String("detail", e.Message),
	)
}
