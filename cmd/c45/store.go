package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pbanos/c45/tree"
	"github.com/pbanos/c45/tree/badgerstore"
	"github.com/pbanos/c45/tree/filestore"
	treejson "github.com/pbanos/c45/tree/json"
	"github.com/pbanos/c45/tree/redisstore"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// storeConfig holds the flags that select where trees are kept.
type storeConfig struct {
	treeFile      string
	store         string
	storeLocation string
	name          string
}

func (sc *storeConfig) addFlags(cmd *cobra.Command, fileUsage string) {
	cmd.PersistentFlags().StringVarP(&(sc.treeFile), "tree", "t", "", fileUsage)
	cmd.PersistentFlags().StringVar(&(sc.store), "store", "", "kind of snapshot store to keep trees in instead of a file: file, redis or badger")
	cmd.PersistentFlags().StringVar(&(sc.storeLocation), "store-location", "", "directory for file and badger stores, or address of the redis server for redis stores")
	cmd.PersistentFlags().StringVar(&(sc.name), "name", "", "name of the tree snapshot on the store")
}

func (sc *storeConfig) Validate() error {
	switch sc.store {
	case "":
		return nil
	case "file", "redis", "badger":
	default:
		return fmt.Errorf("unknown store %q, valid stores are file, redis and badger", sc.store)
	}
	if sc.storeLocation == "" {
		return fmt.Errorf("store-location flag is required for %s stores", sc.store)
	}
	if sc.treeFile != "" {
		return fmt.Errorf("cannot set both tree and store flags at the same time")
	}
	return nil
}

func (sc *storeConfig) openStore(l logger) (tree.Store, error) {
	l.Logf("Opening %s store at %s...", sc.store, sc.storeLocation)
	switch sc.store {
	case "file":
		return filestore.New(sc.storeLocation)
	case "redis":
		return redisstore.Dial(sc.storeLocation, "c45", 0)
	case "badger":
		return badgerstore.Open(badgerstore.Config{Path: sc.storeLocation, Logger: l.WithField("store", "badger")})
	}
	return nil, fmt.Errorf("unknown store %q", sc.store)
}

/*
loadTree reads the tree from the file given with the tree flag, or from
the store if one was selected.
*/
func (sc *storeConfig) loadTree(ctx context.Context, l logger) (*tree.Tree, error) {
	if sc.store != "" {
		if sc.name == "" {
			return nil, fmt.Errorf("name flag is required to load a tree from a store")
		}
		s, err := sc.openStore(l)
		if err != nil {
			return nil, err
		}
		defer s.Close(ctx)
		return treejson.LoadTree(ctx, s, sc.name)
	}
	if sc.treeFile == "" {
		return nil, fmt.Errorf("either tree or store flag must be set")
	}
	f, err := os.Open(sc.treeFile)
	if err != nil {
		return nil, errors.Wrapf(err, "reading tree in JSON from %s", sc.treeFile)
	}
	defer f.Close()
	t, err := treejson.ReadJSONTree(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing tree in JSON from %s", sc.treeFile)
	}
	return t, nil
}

/*
saveTree writes the tree on the store if one was selected, under the name
flag or the tree ID, or else on the file given with the tree flag or STDOUT.
*/
func (sc *storeConfig) saveTree(ctx context.Context, l logger, t *tree.Tree) error {
	if sc.store != "" {
		name := sc.name
		if name == "" {
			name = t.ID
		}
		s, err := sc.openStore(l)
		if err != nil {
			return err
		}
		defer s.Close(ctx)
		err = treejson.SaveTree(ctx, s, name, t)
		if err != nil {
			return err
		}
		l.Logf("Tree saved as %s", name)
		return nil
	}
	if sc.treeFile == "" {
		return treejson.WriteJSONTree(t, os.Stdout)
	}
	s, err := filestore.NewWithExtension(filepath.Dir(sc.treeFile), "")
	if err != nil {
		return err
	}
	return treejson.SaveTree(ctx, s, filepath.Base(sc.treeFile), t)
}
