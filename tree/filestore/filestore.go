/*
Package filestore provides an implementation of tree.Store that keeps
each tree snapshot in a file of a directory.
*/
package filestore

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pbanos/c45/tree"
	"github.com/pkg/errors"
)

// DefaultExtension is the extension of snapshot files created by New.
const DefaultExtension = ".json"

type fileStore struct {
	dir       string
	extension string
}

// New takes a directory path and returns a tree.Store that keeps snapshots
// as files named after them in the directory, creating it if needed.
func New(dir string) (tree.Store, error) {
	return NewWithExtension(dir, DefaultExtension)
}

// NewWithExtension works like New but names snapshot files with the
// given extension. An empty extension names the files after the
// snapshots exactly.
func NewWithExtension(dir, extension string) (tree.Store, error) {
	err := os.MkdirAll(dir, 0750)
	if err != nil {
		return nil, errors.Wrapf(err, "creating snapshot directory %s", dir)
	}
	return &fileStore{dir, extension}, nil
}

// Put writes the snapshot to a temporary file in the store directory and
// renames it over the snapshot file, so a failed write never leaves a
// truncated snapshot behind.
func (fs *fileStore) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := fs.pathFor(name)
	if err != nil {
		return err
	}
	f, err := ioutil.TempFile(fs.dir, "."+name+".tmp-")
	if err != nil {
		return errors.Wrapf(err, "creating temporary file for snapshot %q", name)
	}
	tmp := f.Name()
	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "writing snapshot %q", name)
	}
	err = os.Rename(tmp, path)
	if err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "replacing snapshot %q", name)
	}
	return nil
}

func (fs *fileStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := fs.pathFor(name)
	if err != nil {
		return nil, err
	}
	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, tree.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading snapshot %q", name)
	}
	return data, nil
}

func (fs *fileStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := fs.pathFor(name)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "deleting snapshot %q", name)
	}
	return nil
}

func (fs *fileStore) Close(ctx context.Context) error {
	return nil
}

func (fs *fileStore) pathFor(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", errors.Errorf("invalid snapshot name %q", name)
	}
	return filepath.Join(fs.dir, name+fs.extension), nil
}
