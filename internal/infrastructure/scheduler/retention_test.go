package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asseta-api/pkg/logger"
)

type fakePurger struct {
	cutoff time.Time
	n      int64
	err    error
}

func (f *fakePurger) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.n, f.err
}

func TestRetention_RunOnce_CalculaCutoff(t *testing.T) {
	p := &fakePurger{n: 3}
	r, err := NewRetention("@daily", 30, p, logger.Nop())
	require.NoError(t, err)
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	assert.Equal(t, int64(3), r.RunOnce(context.Background()))
	assert.Equal(t, now.AddDate(0, 0, -30), p.cutoff)
}

func TestRetention_RunOnce_ErrorNoPropaga(t *testing.T) {
	r, err := NewRetention("@hourly", 1, &fakePurger{err: errors.New("db caída")}, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, int64(0), r.RunOnce(context.Background()))
}

func TestNewRetention_Invalido(t *testing.T) {
	_, err := NewRetention("no es cron", 7, &fakePurger{}, logger.Nop())
	assert.Error(t, err)

	_, err = NewRetention("@daily", 0, &fakePurger{}, logger.Nop())
	assert.Error(t, err)
}
