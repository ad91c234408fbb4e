package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condoku_backend/internals/helpers/logger"
)

type fakePurger struct {
	cutoff time.Time
	n      int64
	err    error
}

func (f *fakePurger) PurgeBatchDocuments(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.n, f.err
}

func TestRunBatchCleanup(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	p := &fakePurger{n: 3}

	n, err := RunBatchCleanup(context.Background(), p, 7*24*time.Hour, now, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, now.AddDate(0, 0, -7), p.cutoff)
}

func TestRunBatchCleanupError(t *testing.T) {
	p := &fakePurger{err: errors.New("boom")}
	_, err := RunBatchCleanup(context.Background(), p, time.Hour, time.Now(), logger.Nop())
	assert.Error(t, err)
}
