package redis

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/turtacn/Uni-Dock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Uni-Dock/pkg/errors"
)

var (
	ErrLeaseHeld    = errors.New(errors.ErrCodeDeviceLeaseHeld, "accelerator is leased by another run")
	ErrLeaseNotHeld = errors.New(errors.ErrCodeCacheError, "lease not held by this owner")
)

type leaseConfig struct {
	ttl              time.Duration
	retryDelay       time.Duration
	retryCount       int
	watchdogEnabled  bool
	watchdogInterval time.Duration
}

type LeaseOption func(*leaseConfig)

func WithLeaseTTL(ttl time.Duration) LeaseOption {
	return func(c *leaseConfig) { c.ttl = ttl }
}

func WithRetryDelay(delay time.Duration) LeaseOption {
	return func(c *leaseConfig) { c.retryDelay = delay }
}

// WithRetryCount sets how many SetNX attempts Acquire makes before giving up.
func WithRetryCount(count int) LeaseOption {
	return func(c *leaseConfig) { c.retryCount = count }
}

func WithWatchdog(enabled bool) LeaseOption {
	return func(c *leaseConfig) { c.watchdogEnabled = enabled }
}

func WithWatchdogInterval(interval time.Duration) LeaseOption {
	return func(c *leaseConfig) { c.watchdogInterval = interval }
}

// DeviceLease is a Redis mutex over one accelerator.  Runs on different hosts
// that share a device pool take the lease before planning batches so two
// planners never budget against the same free memory.
type DeviceLease struct {
	client *Client
	key    string
	owner  string
	value  string
	config leaseConfig
	logger logging.Logger

	mu             sync.Mutex
	watchdogCancel context.CancelFunc
	watchdogDone   chan struct{}
}

// NewDeviceLease builds the lease for device under keyPrefix.  owner is
// recorded alongside a random token so Holder can name the current run.
func NewDeviceLease(client *Client, keyPrefix string, device int, owner string, log logging.Logger, opts ...LeaseOption) *DeviceLease {
	cfg := leaseConfig{
		ttl:             30 * time.Second,
		retryDelay:      100 * time.Millisecond,
		retryCount:      1,
		watchdogEnabled: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.retryCount < 1 {
		cfg.retryCount = 1
	}
	if cfg.watchdogInterval == 0 {
		cfg.watchdogInterval = cfg.ttl / 3
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &DeviceLease{
		client: client,
		key:    keyPrefix + strconv.Itoa(device),
		owner:  owner,
		value:  owner + "/" + generateLockValue(),
		config: cfg,
		logger: log.With(logging.String("lease", keyPrefix+strconv.Itoa(device))),
	}
}

func (l *DeviceLease) Key() string { return l.key }

var leaseReleaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

var leaseExtendScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

// Acquire takes the lease and returns its release function.  When another
// owner keeps the lease through every retry the error carries the holder.
func (l *DeviceLease) Acquire(ctx context.Context) (func(context.Context) error, error) {
	rdb := l.client.GetUnderlyingClient()
	for i := 0; i < l.config.retryCount; i++ {
		ok, err := rdb.SetNX(ctx, l.key, l.value, l.config.ttl).Result()
		if err != nil && err != redis.Nil {
			return nil, errors.Wrap(err, errors.ErrCodeCacheError, "failed to set device lease").WithDetail(l.key)
		}
		if ok {
			if l.config.watchdogEnabled {
				l.startWatchdog()
			}
			l.logger.Info("device lease acquired", logging.String("owner", l.owner))
			return l.Release, nil
		}
		if i == l.config.retryCount-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), errors.ErrCodeDeviceLeaseHeld, "device lease wait interrupted").WithDetail(l.key)
		case <-time.After(l.config.retryDelay):
		}
	}

	holder, _ := l.Holder(ctx)
	return nil, ErrLeaseHeld.WithDetail(l.key + " held by " + holder)
}

// Release drops the lease if this owner still holds it.
func (l *DeviceLease) Release(ctx context.Context) error {
	l.stopWatchdog()
	res, err := leaseReleaseScript.Run(ctx, l.client.GetUnderlyingClient(), []string{l.key}, l.value).Result()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to release device lease").WithDetail(l.key)
	}
	if res.(int64) == 0 {
		return ErrLeaseNotHeld
	}
	l.logger.Info("device lease released")
	return nil
}

func (l *DeviceLease) Extend(ctx context.Context, ttl time.Duration) (bool, error) {
	res, err := leaseExtendScript.Run(ctx, l.client.GetUnderlyingClient(), []string{l.key}, l.value, ttl.Milliseconds()).Result()
	if err != nil {
		return false, err
	}
	return res.(int64) == 1, nil
}

func (l *DeviceLease) TTL(ctx context.Context) (time.Duration, error) {
	return l.client.GetUnderlyingClient().PTTL(ctx, l.key).Result()
}

// Holder reports the owner recorded in the lease, or "" when it is free.
func (l *DeviceLease) Holder(ctx context.Context) (string, error) {
	v, err := l.client.GetUnderlyingClient().Get(ctx, l.key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if i := strings.LastIndex(v, "/"); i >= 0 {
		return v[:i], nil
	}
	return v, nil
}

func (l *DeviceLease) startWatchdog() {
	l.mu.Lock()
	defer l.mu.Unlock()
	ctx, cancel := context.WithCancel(context.Background())
	l.watchdogCancel = cancel
	l.watchdogDone = make(chan struct{})

	go runWatchdog(ctx, l.Extend, l.config.watchdogInterval, l.config.ttl, l.logger, l.watchdogDone)
}

func (l *DeviceLease) stopWatchdog() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.watchdogCancel != nil {
		l.watchdogCancel()
		<-l.watchdogDone
		l.watchdogCancel = nil
	}
}

// Helpers

func generateLockValue() string {
	return uuid.New().String()
}

func runWatchdog(ctx context.Context, extendFn func(context.Context, time.Duration) (bool, error), interval time.Duration, ttl time.Duration, log logging.Logger, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ok, err := extendFn(ctx, ttl)
			if err != nil {
				if ctx.Err() == nil {
					log.Error("Watchdog failed to extend lease", logging.Err(err))
				}
				return
			}
			if !ok {
				log.Warn("Watchdog lost lease")
				return
			}
		}
	}
}

//Personal.AI order the ending
