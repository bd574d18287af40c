package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/Uni-Dock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Uni-Dock/pkg/errors"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient(&ClientConfig{Addr: mr.Addr()}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestDeviceLease_AcquireRelease(t *testing.T) {
	mr, client := newTestClient(t)
	ctx := context.Background()

	lease := NewDeviceLease(client, "unidock:lock:gpu:", 0, "run-1", nil, WithLeaseTTL(time.Second))
	assert.Equal(t, "unidock:lock:gpu:0", lease.Key())

	release, err := lease.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, mr.Exists("unidock:lock:gpu:0"))

	holder, err := lease.Holder(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-1", holder)

	ttl, err := lease.TTL(ctx)
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists("unidock:lock:gpu:0"))

	holder, err = lease.Holder(ctx)
	require.NoError(t, err)
	assert.Empty(t, holder)
}

func TestDeviceLease_Contention(t *testing.T) {
	_, client := newTestClient(t)
	ctx := context.Background()

	first := NewDeviceLease(client, "unidock:lock:gpu:", 0, "run-1", nil, WithWatchdog(false))
	second := NewDeviceLease(client, "unidock:lock:gpu:", 0, "run-2", nil,
		WithRetryCount(2), WithRetryDelay(10*time.Millisecond), WithWatchdog(false))

	release, err := first.Acquire(ctx)
	require.NoError(t, err)

	_, err = second.Acquire(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDeviceLeaseHeld))

	var ae *errors.AppError
	require.True(t, errors.As(err, &ae))
	assert.Contains(t, ae.Detail, "run-1")

	require.NoError(t, release(ctx))

	release2, err := second.Acquire(ctx)
	require.NoError(t, err)
	require.NoError(t, release2(ctx))
}

func TestDeviceLease_DifferentDevicesDoNotConflict(t *testing.T) {
	_, client := newTestClient(t)
	ctx := context.Background()

	a := NewDeviceLease(client, "p:", 0, "run-a", nil, WithWatchdog(false))
	b := NewDeviceLease(client, "p:", 1, "run-b", nil, WithWatchdog(false))

	ra, err := a.Acquire(ctx)
	require.NoError(t, err)
	rb, err := b.Acquire(ctx)
	require.NoError(t, err)

	assert.NoError(t, ra(ctx))
	assert.NoError(t, rb(ctx))
}

func TestDeviceLease_ReleaseAfterExpiry(t *testing.T) {
	mr, client := newTestClient(t)
	ctx := context.Background()

	lease := NewDeviceLease(client, "p:", 0, "run-1", nil, WithLeaseTTL(time.Second), WithWatchdog(false))
	release, err := lease.Acquire(ctx)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	err = release(ctx)
	assert.Equal(t, ErrLeaseNotHeld, err)
}

func TestDeviceLease_Extend(t *testing.T) {
	mr, client := newTestClient(t)
	ctx := context.Background()

	lease := NewDeviceLease(client, "p:", 0, "run-1", nil, WithLeaseTTL(time.Second), WithWatchdog(false))
	_, err := lease.Acquire(ctx)
	require.NoError(t, err)

	ok, err := lease.Extend(ctx, 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 10*time.Second, mr.TTL("p:0"))

	mr.Del("p:0")
	ok, err = lease.Extend(ctx, 10*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeviceLease_WatchdogStopsOnRelease(t *testing.T) {
	_, client := newTestClient(t)
	ctx := context.Background()

	lease := NewDeviceLease(client, "p:", 0, "run-1", nil,
		WithLeaseTTL(300*time.Millisecond), WithWatchdogInterval(20*time.Millisecond))
	release, err := lease.Acquire(ctx)
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)
	require.NoError(t, release(ctx))
	assert.Nil(t, lease.watchdogCancel)
}

func TestDeviceLease_AcquireCancelled(t *testing.T) {
	_, client := newTestClient(t)

	holder := NewDeviceLease(client, "p:", 0, "run-1", nil, WithWatchdog(false))
	_, err := holder.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	waiter := NewDeviceLease(client, "p:", 0, "run-2", nil, WithRetryCount(5), WithRetryDelay(time.Second))
	_, err = waiter.Acquire(ctx)
	require.Error(t, err)
}

//Personal.AI order the ending
