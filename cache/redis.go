package cache

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection parameters for the Redis provider.
type RedisConfig struct {
	Addr     string `json:"addr,omitempty"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db,omitempty"`
}

type redisProvider struct {
	client *redis.Client
	closed atomic.Bool
	dialed atomic.Bool
	notifier
}

// NewRedisProvider creates a Provider backed by a networked Redis instance.
// Connectivity events are surfaced through Subscribe: "connect" on each
// established connection, "error" on a failed dial, "reconnecting" when a
// previously connected client dials again after a failure, and "end" once
// on Close.
func NewRedisProvider(cfg RedisConfig) Provider {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}

	p := &redisProvider{}
	p.client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	p.client.AddHook(&connectivityHook{provider: p})
	return p
}

func (p *redisProvider) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if p.closed.Load() {
		return nil, false, ErrClosed
	}

	value, err := p.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (p *redisProvider) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if p.closed.Load() {
		return ErrClosed
	}
	return p.client.Set(ctx, key, value, ttl).Err()
}

func (p *redisProvider) ClearAll(ctx context.Context) error {
	if p.closed.Load() {
		return ErrClosed
	}
	return p.client.FlushAll(ctx).Err()
}

func (p *redisProvider) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.client.Close()
	p.emit(EventEnd, "connection closed")
	return err
}

// connectivityHook translates dial outcomes into provider events. Command
// and pipeline processing pass through untouched.
type connectivityHook struct {
	provider *redisProvider
}

func (h *connectivityHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.provider.emit(EventError, err.Error())
			if h.provider.dialed.Load() {
				h.provider.emit(EventReconnecting, addr)
			}
			return nil, err
		}

		h.provider.dialed.Store(true)
		h.provider.emit(EventConnect, addr)
		return conn, nil
	}
}

func (h *connectivityHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return next
}

func (h *connectivityHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}
