package limiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/isAdamBailey/black-circles/limiter"
	"github.com/stretchr/testify/assert"
)

func TestSleep(t *testing.T) {
	assert.NoError(t, limiter.Sleep(context.Background(), time.Millisecond))
	assert.NoError(t, limiter.Sleep(context.Background(), 0))
}

func TestSleepCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, limiter.Sleep(ctx, time.Hour), context.Canceled)
}
