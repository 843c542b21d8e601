/*
Package json serializes trees into versioned JSON snapshots and restores
them.

A snapshot is a JSON object with the following fields:
  - "version": the schema version, currently 1
  - "id": the ID of the tree
  - "target": the name of the attribute the tree predicts
  - "classes": the values of the target attribute in canonical order
  - "rootID": the ID of the node at the root of the tree
  - "nodes": an array with every node of the tree in pre-order. A node is
    an object tagged by its "kind": leaves ("leaf") carry their "class",
    internal nodes ("internal") carry their "attribute" and "branches",
    each with a "value", the "node" ID of the child and the class
    distribution "dist" of the training samples that reached it.

Parent references are not serialized: they are reattached while the
tree is rebuilt from its root.
*/
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/pbanos/c45/tree"
)

// Version is the snapshot schema version written by Encode.
const Version = 1

// ErrUnsupportedVersion is returned when decoding a snapshot whose schema
// version is not known.
var ErrUnsupportedVersion = fmt.Errorf("unsupported snapshot version")

type snapshot struct {
	Version int      `json:"version"`
	ID      string   `json:"id,omitempty"`
	Target  string   `json:"target"`
	Classes []string `json:"classes,omitempty"`
	RootID  string   `json:"rootID"`
	Nodes   []*node  `json:"nodes"`
}

// Encode takes a tree and returns its JSON snapshot or an error.
func Encode(t *tree.Tree) ([]byte, error) {
	if t == nil || t.Root == nil {
		return nil, fmt.Errorf("encoding tree: tree has no root")
	}
	nodes, err := flatten(t.Root)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&snapshot{
		Version: Version,
		ID:      t.ID,
		Target:  t.Target,
		Classes: t.Classes,
		RootID:  nodes[0].ID,
		Nodes:   nodes,
	})
}

// Decode takes a JSON snapshot and returns the tree it holds, or nil and
// an error if the snapshot is corrupt or of an unsupported version.
func Decode(data []byte) (*tree.Tree, error) {
	s := &snapshot{}
	err := json.Unmarshal(data, s)
	if err != nil {
		return nil, fmt.Errorf("decoding tree: %v", err)
	}
	if s.Version != Version {
		return nil, fmt.Errorf("decoding tree: %w %d", ErrUnsupportedVersion, s.Version)
	}
	if s.Target == "" {
		return nil, fmt.Errorf("decoding tree: no target attribute defined")
	}
	if s.RootID == "" {
		return nil, fmt.Errorf("decoding tree: no root node id available")
	}
	root, err := assemble(s.Nodes, s.RootID)
	if err != nil {
		return nil, err
	}
	return tree.New(s.ID, s.Target, s.Classes, root), nil
}

/*
WriteJSONTree takes a pointer to a tree.Tree and an io.Writer and writes
the tree snapshot onto the io.Writer. An error is returned if the tree
cannot be serialized or written.
*/
func WriteJSONTree(t *tree.Tree, w io.Writer) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

/*
ReadJSONTree takes an io.Reader and returns the tree in the snapshot read
from it, or nil and an error if it cannot be read or decoded.
*/
func ReadJSONTree(r io.Reader) (*tree.Tree, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading tree: %v", err)
	}
	return Decode(data)
}

// SaveTree takes a context, a store, a name and a tree and puts the tree
// snapshot in the store under the name.
func SaveTree(ctx context.Context, s tree.Store, name string, t *tree.Tree) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}
	err = s.Put(ctx, name, data)
	if err != nil {
		return fmt.Errorf("saving tree %s: %w", name, err)
	}
	return nil
}

// LoadTree takes a context, a store and a name and returns the tree whose
// snapshot is stored under the name. A missing or corrupt snapshot yields
// a nil tree and an error, tree.ErrSnapshotNotFound in the former case.
func LoadTree(ctx context.Context, s tree.Store, name string) (*tree.Tree, error) {
	data, err := s.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("loading tree %s: %w", name, err)
	}
	t, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("loading tree %s: %w", name, err)
	}
	return t, nil
}
