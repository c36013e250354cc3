package idgen

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/placementcrm/internal/pkg/apperrors"
)

type countingRecorder struct {
	mu        sync.Mutex
	allocated map[Kind]int
	retried   map[Kind]int
	failed    map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		allocated: map[Kind]int{},
		retried:   map[Kind]int{},
		failed:    map[string]int{},
	}
}

func (r *countingRecorder) Allocated(kind Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allocated[kind]++
}

func (r *countingRecorder) Retried(kind Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retried[kind]++
}

func (r *countingRecorder) Failed(kind Kind, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed[string(kind)+"/"+reason]++
}

func TestAllocateSucceedsFirstTry(t *testing.T) {
	rec := newCountingRecorder()
	alloc := NewAllocator(3, rec)

	code, err := alloc.Allocate(context.Background(), KindJob, func(context.Context) (string, error) {
		return "INF-050324-01", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "INF-050324-01", code)
	assert.Equal(t, 1, rec.allocated[KindJob])
	assert.Zero(t, rec.retried[KindJob])
}

func TestAllocateRetriesOnCollision(t *testing.T) {
	rec := newCountingRecorder()
	alloc := NewAllocator(3, rec)

	calls := 0
	code, err := alloc.Allocate(context.Background(), KindStudent, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", fmt.Errorf("insert student: %w", apperrors.ErrUniquenessViolation)
		}
		return "CD-TM-1003", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "CD-TM-1003", code)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, rec.retried[KindStudent])
	assert.Equal(t, 1, rec.allocated[KindStudent])
}

func TestAllocateGivesUpAfterMaxAttempts(t *testing.T) {
	rec := newCountingRecorder()
	alloc := NewAllocator(2, rec)

	calls := 0
	_, err := alloc.Allocate(context.Background(), KindStudent, func(context.Context) (string, error) {
		calls++
		return "", apperrors.ErrUniquenessViolation
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUniquenessViolation)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, rec.failed["student/exhausted"])
}

func TestAllocateDoesNotRetryOtherErrors(t *testing.T) {
	rec := newCountingRecorder()
	alloc := NewAllocator(5, rec)

	calls := 0
	_, err := alloc.Allocate(context.Background(), KindJob, func(context.Context) (string, error) {
		calls++
		return "", fmt.Errorf("%w: scan failed", apperrors.ErrStorageUnavailable)
	})

	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, rec.failed["job/storage_unavailable"])

	_, err = alloc.Allocate(context.Background(), KindJob, func(context.Context) (string, error) {
		return "", apperrors.NewInvalidArgumentError("department name is required")
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	assert.Equal(t, 1, rec.failed["job/invalid_argument"])
}

func TestAllocateStopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := NewAllocator(3, nil).Allocate(ctx, KindJob, func(context.Context) (string, error) {
		called = true
		return "", nil
	})

	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, called)
}
