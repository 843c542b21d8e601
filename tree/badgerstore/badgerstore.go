/*
Package badgerstore provides an implementation of tree.Store on an
embedded BadgerDB database.
*/
package badgerstore

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/pbanos/c45/tree"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "snapshot:"

type badgerStore struct {
	db *badger.DB
}

// Config holds the options to open a BadgerDB backed store.
type Config struct {
	// Path is the directory for the database files,
	// ignored when InMemory is true.
	Path string
	// InMemory keeps the database in memory only.
	InMemory bool
	// Logger receives the database internal logs. If nil
	// they are discarded.
	Logger logrus.FieldLogger
}

// Open takes a Config and returns a tree.Store on the BadgerDB database
// it describes or an error if it cannot be opened.
func Open(cfg Config) (tree.Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, fmt.Errorf("path is required for a persistent snapshot database")
	}
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path).WithSyncWrites(true)
	}
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "opening badger database")
	}
	return &badgerStore{db}, nil
}

func (bs *badgerStore) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := bs.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(name), data)
	})
	if err != nil {
		return errors.Wrapf(err, "storing snapshot %q in badger", name)
	}
	return nil
}

func (bs *badgerStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := bs.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, tree.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "retrieving snapshot %q from badger", name)
	}
	return data, nil
}

func (bs *badgerStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := bs.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(name))
	})
	if err != nil {
		return errors.Wrapf(err, "deleting snapshot %q from badger", name)
	}
	return nil
}

func (bs *badgerStore) Close(ctx context.Context) error {
	return bs.db.Close()
}

func key(name string) []byte {
	return []byte(keyPrefix + name)
}

type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(format string, args ...interface{})   { l.logger.Errorf(format, args...) }
func (l *badgerLogger) Warningf(format string, args ...interface{}) { l.logger.Warnf(format, args...) }
func (l *badgerLogger) Infof(format string, args ...interface{})    { l.logger.Debugf(format, args...) }
func (l *badgerLogger) Debugf(format string, args ...interface{})   { l.logger.Debugf(format, args...) }
