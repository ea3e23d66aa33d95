package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerConfig holds parameters for the embedded BadgerDB provider.
type BadgerConfig struct {
	// Path is the directory for the database files. Required unless
	// InMemory is set.
	Path string `json:"path,omitempty"`
	// InMemory keeps the database off disk. Useful for tests.
	InMemory bool `json:"in_memory,omitempty"`
	// Logger receives BadgerDB's internal logging. Nil disables it.
	Logger *slog.Logger `json:"-"`
}

type badgerProvider struct {
	db     *badger.DB
	closed atomic.Bool
	notifier
}

// NewBadgerProvider creates a Provider backed by an embedded BadgerDB with
// native per-entry TTL. Sessions survive process restarts without a network
// hop. Subscribe handlers never fire.
func NewBadgerProvider(cfg BadgerConfig) (Provider, error) {
	if cfg.Path == "" && !cfg.InMemory {
		return nil, errors.New("badger provider requires a path or in-memory mode")
	}

	opts := badger.DefaultOptions(cfg.Path).WithInMemory(cfg.InMemory)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", cfg.Path, err)
	}
	return &badgerProvider{db: db}, nil
}

func (p *badgerProvider) Get(_ context.Context, key string) ([]byte, bool, error) {
	if p.closed.Load() {
		return nil, false, ErrClosed
	}

	var value []byte
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (p *badgerProvider) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if p.closed.Load() {
		return ErrClosed
	}

	return p.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), value).WithTTL(ttl))
	})
}

func (p *badgerProvider) ClearAll(_ context.Context) error {
	if p.closed.Load() {
		return ErrClosed
	}
	return p.db.DropAll()
}

func (p *badgerProvider) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.db.Close()
}

// badgerLogger adapts slog.Logger to BadgerDB's logger interface.
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
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
