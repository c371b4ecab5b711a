package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
)

// Badger is a KVStore backed by an embedded BadgerDB
type Badger struct {
	db *badger.DB
}

var _ interfaces.KVStore = &Badger{}

type config struct {
	inMemory bool
	logger   *slog.Logger
}

type Option func(*config)

// WithInMemory keeps all data in memory; the path is ignored
func WithInMemory() Option {
	return func(c *config) {
		c.inMemory = true
	}
}

// WithLogger forwards BadgerDB's internal logs to logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// badgerLogger adapts slog.Logger to badger.Logger
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// New opens (or creates) a database at path
func New(path string, opts ...Option) (*Badger, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	var bopts badger.Options
	if cfg.inMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if path == "" {
			return nil, goerr.New("badger path is required")
		}
		if err := os.MkdirAll(path, 0750); err != nil {
			return nil, goerr.Wrap(err, "failed to create badger directory", goerr.V("path", path))
		}
		bopts = badger.DefaultOptions(path).WithSyncWrites(true)
	}

	if cfg.logger != nil {
		bopts = bopts.WithLogger(&badgerLogger{logger: cfg.logger})
	} else {
		bopts = bopts.WithLogger(nil)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open badger", goerr.V("path", path))
	}

	return &Badger{db: db}, nil
}

func (b *Badger) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, goerr.Wrap(interfaces.ErrKeyNotFound, "key not found in badger", goerr.V("key", key))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get value from badger", goerr.V("key", key))
	}
	return value, nil
}

func (b *Badger) Set(ctx context.Context, key string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to set value to badger", goerr.V("key", key))
	}
	return nil
}

func (b *Badger) Delete(ctx context.Context, key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete value from badger", goerr.V("key", key))
	}
	return nil
}

func (b *Badger) Close() error {
	if err := b.db.Close(); err != nil {
		return goerr.Wrap(err, "failed to close badger")
	}
	return nil
}
