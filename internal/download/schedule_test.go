package download

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler("every tuesday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schedule")
}

func TestScheduler_RunsImmediately(t *testing.T) {
	s, err := NewScheduler("@daily")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	runs := 0
	err = s.Run(ctx, func(context.Context) error {
		runs++
		cancel()
		return errors.New("publisher offline")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, runs)
}

func TestScheduler_SkipsOverlappingRuns(t *testing.T) {
	s, err := NewScheduler("@every 1s")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var runs, active, peak atomic.Int32
	err = s.Run(ctx, func(context.Context) error {
		runs.Add(1)
		n := active.Add(1)
		defer active.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2500 * time.Millisecond)
		cancel()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), runs.Load())
	assert.Equal(t, int32(1), peak.Load())
}
