package idgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/placementcrm/internal/pkg/apperrors"
	"github.com/yigit/placementcrm/internal/pkg/logger"
)

// Kind names the record type an identifier is allocated for.
type Kind string

const (
	KindStudent Kind = "student"
	KindJob     Kind = "job"
)

// Recorder observes allocation outcomes.
type Recorder interface {
	Allocated(kind Kind)
	Retried(kind Kind)
	Failed(kind Kind, reason string)
}

type nopRecorder struct{}

func (nopRecorder) Allocated(Kind)      {}
func (nopRecorder) Retried(Kind)        {}
func (nopRecorder) Failed(Kind, string) {}

// AttemptFn generates a code and inserts the owning record, returning the code it stored.
// It must report a collision on the code column as apperrors.ErrUniquenessViolation.
type AttemptFn func(ctx context.Context) (string, error)

// Allocator retries generate-and-insert attempts that lose a race on the unique code column.
type Allocator struct {
	maxAttempts int
	recorder    Recorder
}

// NewAllocator creates an Allocator. A nil recorder discards observations.
func NewAllocator(maxAttempts int, recorder Recorder) *Allocator {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Allocator{maxAttempts: maxAttempts, recorder: recorder}
}

// Allocate runs attempt until it succeeds, fails with an error other than a uniqueness
// violation, or the attempt budget is spent.
func (a *Allocator) Allocate(ctx context.Context, kind Kind, attempt AttemptFn) (string, error) {
	var lastErr error
	for i := 1; i <= a.maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			a.recorder.Failed(kind, "canceled")
			return "", err
		}

		code, err := attempt(ctx)
		if err == nil {
			a.recorder.Allocated(kind)
			return code, nil
		}
		if !errors.Is(err, apperrors.ErrUniquenessViolation) {
			a.recorder.Failed(kind, failureReason(err))
			return "", err
		}

		lastErr = err
		a.recorder.Retried(kind)
		logger.Warn().Str("kind", string(kind)).Int("attempt", i).Err(err).Msg("Identifier collision, regenerating")
	}

	a.recorder.Failed(kind, "exhausted")
	return "", fmt.Errorf("allocating %s code after %d attempts: %w", kind, a.maxAttempts, lastErr)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		return "storage_unavailable"
	default:
		return "other"
	}
}
