package redis

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
)

// Redis is a KVStore on a Redis server. Values never expire.
type Redis struct {
	client    *redis.Client
	keyPrefix string
}

var _ interfaces.KVStore = &Redis{}

type config struct {
	options   redis.Options
	keyPrefix string
}

type Option func(*config)

// WithKeyPrefix prepends prefix to every key
func WithKeyPrefix(prefix string) Option {
	return func(c *config) {
		c.keyPrefix = prefix
	}
}

// WithPassword sets the AUTH password
func WithPassword(password string) Option {
	return func(c *config) {
		c.options.Password = password
	}
}

// New connects to addr and checks the connection with PING
func New(ctx context.Context, addr string, db int, opts ...Option) (*Redis, error) {
	cfg := config{
		options: redis.Options{
			Addr: addr,
			DB:   db,
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Redis{
		client:    redis.NewClient(&cfg.options),
		keyPrefix: cfg.keyPrefix,
	}

	if err := r.client.Ping(ctx).Err(); err != nil {
		_ = r.client.Close()
		return nil, goerr.Wrap(err, "failed to connect to redis", goerr.V("addr", addr))
	}

	return r, nil
}

func (r *Redis) key(key string) string {
	return r.keyPrefix + key
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, goerr.Wrap(interfaces.ErrKeyNotFound, "key not found in redis", goerr.V("key", key))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get value from redis", goerr.V("key", key))
	}
	return value, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return goerr.Wrap(err, "failed to set value to redis", goerr.V("key", key))
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return goerr.Wrap(err, "failed to delete value from redis", goerr.V("key", key))
	}
	return nil
}

func (r *Redis) Close() error {
	if err := r.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close redis client")
	}
	return nil
}
