/*
Package redisstore provides an implementation of tree.Store that keeps
tree snapshots in a redis DB.
*/
package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/pbanos/c45/tree"
	"github.com/pkg/errors"
	"gopkg.in/redis.v5"
)

type redisStore struct {
	rc     *redis.Client
	prefix string
	ttl    time.Duration
}

// New builds a tree.Store backed by a redis DB. Snapshots are kept
// under the key prefix:name and expire after the given ttl (0 for no
// expiration).
func New(rc *redis.Client, prefix string, ttl time.Duration) tree.Store {
	return &redisStore{rc, prefix, ttl}
}

// Dial takes the address of a redis server, a key prefix and a ttl and
// returns a tree.Store on a new client connected to it or an error if
// the server does not respond.
func Dial(addr, prefix string, ttl time.Duration) (tree.Store, error) {
	rc := redis.NewClient(&redis.Options{Addr: addr})
	err := rc.Ping().Err()
	if err != nil {
		rc.Close()
		return nil, errors.Wrapf(err, "connecting to redis at %s", addr)
	}
	return New(rc, prefix, ttl), nil
}

func (rs *redisStore) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := rs.rc.Set(rs.keyFor(name), data, rs.ttl).Err()
	if err != nil {
		return errors.Wrapf(err, "storing snapshot %q in redis", name)
	}
	return nil
}

func (rs *redisStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := rs.rc.Get(rs.keyFor(name)).Bytes()
	if err == redis.Nil {
		return nil, tree.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "retrieving snapshot %q from redis", name)
	}
	return data, nil
}

func (rs *redisStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := rs.rc.Del(rs.keyFor(name)).Err()
	if err != nil {
		return errors.Wrapf(err, "deleting snapshot %q from redis", name)
	}
	return nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	return rs.rc.Close()
}

func (rs *redisStore) keyFor(name string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, name)
}
