// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Backend owns a BadgerDB instance and runs catalog transactions on it.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// BackendOption configures OpenBackend.
type BackendOption func(*backendConfig)

type backendConfig struct {
	inMemory   bool
	syncWrites bool
	logger     *slog.Logger
}

// InMemory keeps the database in memory; the path is ignored.
func InMemory() BackendOption {
	return func(c *backendConfig) {
		c.inMemory = true
	}
}

// WithSyncWrites fsyncs every commit.
func WithSyncWrites(sync bool) BackendOption {
	return func(c *backendConfig) {
		c.syncWrites = sync
	}
}

// WithBackendLogger sets the logger that receives badger's own log output.
// Default is slog.Default().
func WithBackendLogger(logger *slog.Logger) BackendOption {
	return func(c *backendConfig) {
		c.logger = logger
	}
}

// slogAdapter routes badger's printf-style logging into slog. Badger's info
// output is mostly compaction chatter, so it is logged at debug.
type slogAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*slogAdapter)(nil)

func (a *slogAdapter) Errorf(msg string, items ...any) {
	a.logger.Error(fmt.Sprintf(msg, items...))
}

func (a *slogAdapter) Warningf(msg string, items ...any) {
	a.logger.Warn(fmt.Sprintf(msg, items...))
}

func (a *slogAdapter) Infof(msg string, items ...any) {
	a.logger.Debug(fmt.Sprintf(msg, items...))
}

func (a *slogAdapter) Debugf(msg string, items ...any) {
	a.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBackend opens the BadgerDB database in directory path, creating it if
// needed.
func OpenBackend(path string, opts ...BackendOption) (*Backend, error) {
	cfg := &backendConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	logger := cfg.logger.With("component", "badger")

	var badgerOpts badger.Options
	if cfg.inMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := ensureDir(path); err != nil {
			return nil, err
		}
		badgerOpts = badger.DefaultOptions(path).WithSyncWrites(cfg.syncWrites)
	}
	badgerOpts = badgerOpts.
		WithLogger(&slogAdapter{logger: logger}).
		WithCompression(options.None)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}
	logger.Debug("catalog database opened", "path", path, "inMemory", cfg.inMemory)

	return &Backend{db: db, logger: logger}, nil
}

func ensureDir(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return os.MkdirAll(path, 0o755)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

type txKey struct{}

// view runs fn in a read-only transaction, or in the transaction carried by
// ctx if there is one.
func (b *Backend) view(ctx context.Context, fn func(tx *badger.Txn) error) error {
	if tx, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		return fn(tx)
	}
	return b.db.View(fn)
}

// update runs fn in a read-write transaction that commits when fn returns
// nil. Inside WithTransaction it joins the outer transaction instead.
func (b *Backend) update(ctx context.Context, fn func(tx *badger.Txn) error) error {
	if tx, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		return fn(tx)
	}
	return b.db.Update(fn)
}

// WithTransaction runs fn with a context carrying one read-write transaction.
// Repository calls made with that context share it; everything commits if
// fn returns nil and nothing does otherwise. Nested calls join the outer
// transaction.
func (b *Backend) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*badger.Txn); ok {
		return fn(ctx)
	}
	return b.db.Update(func(tx *badger.Txn) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
