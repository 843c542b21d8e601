package tree

import (
	"context"
	"sync"
)

// StoreError represents an error related with snapshot stores
type StoreError string

/*
ErrSnapshotNotFound is the error returned by a Store when no snapshot
is stored under the requested name.
*/
const ErrSnapshotNotFound = StoreError("snapshot not found")

func (se StoreError) Error() string {
	return string(se)
}

/*
Store is an interface to manage a store where serialized trees
(snapshots) can be put, retrieved and deleted by name.

All its methods take a context that may allow
cancelling the operation (thus forcing the return
of an error) if the implementation allows it.
*/
type Store interface {
	// Put takes a name and a snapshot and stores
	// the snapshot under the name, replacing any
	// previous one. Implementations must never leave
	// a partially written snapshot under the name.
	Put(ctx context.Context, name string, data []byte) error
	// Get takes a name and returns the snapshot stored
	// under it, ErrSnapshotNotFound if there is none or
	// another error if the store cannot be queried.
	Get(ctx context.Context, name string) ([]byte, error)
	// Delete takes a name and removes the snapshot
	// stored under it. Deleting a missing snapshot
	// is not an error.
	Delete(ctx context.Context, name string) error
	// Close closes the store, implementations should
	// free any resources in use as well as ensure
	// any pending changes are applied before returning
	// (unless the context expires).
	Close(ctx context.Context) error
}

type memoryStore struct {
	snapshots map[string][]byte
	lock      *sync.RWMutex
}

// NewMemoryStore returns an implementation
// of Store with the process memory space
// as underlying backend
func NewMemoryStore() Store {
	return &memoryStore{
		snapshots: make(map[string][]byte),
		lock:      &sync.RWMutex{},
	}
}

func (ms *memoryStore) Put(ctx context.Context, name string, data []byte) error {
	snapshot := append([]byte(nil), data...)
	return ms.withLock(ctx, func(ctx context.Context) error {
		ms.snapshots[name] = snapshot
		return nil
	})
}

func (ms *memoryStore) Get(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := ms.withRLock(ctx, func(ctx context.Context) error {
		snapshot, ok := ms.snapshots[name]
		if !ok {
			return ErrSnapshotNotFound
		}
		data = append([]byte(nil), snapshot...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (ms *memoryStore) Delete(ctx context.Context, name string) error {
	return ms.withLock(ctx, func(ctx context.Context) error {
		delete(ms.snapshots, name)
		return nil
	})
}

func (ms *memoryStore) Close(ctx context.Context) error {
	return nil
}

func (ms *memoryStore) withLock(ctx context.Context, f func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gotLock := make(chan struct{})
	go func() {
		ms.lock.Lock()
		select {
		case <-ctx.Done():
			ms.lock.Unlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer ms.lock.Unlock()
	}
	return f(ctx)
}

func (ms *memoryStore) withRLock(ctx context.Context, f func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gotLock := make(chan struct{})
	go func() {
		ms.lock.RLock()
		select {
		case <-ctx.Done():
			ms.lock.RUnlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer ms.lock.RUnlock()
	}
	return f(ctx)
}
