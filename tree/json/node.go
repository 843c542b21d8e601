package json

import (
	"fmt"
	"strconv"

	"github.com/pbanos/c45/tree"
)

const (
	leafKind     = "leaf"
	internalKind = "internal"
)

/*
node is the serialized form of a tree.Node. Nodes reference their children
by ID, while the reference to their parent is left out and rebuilt when
the tree is decoded.
*/
type node struct {
	ID        string   `json:"id"`
	Kind      string   `json:"kind"`
	Class     string   `json:"class,omitempty"`
	Attribute string   `json:"attribute,omitempty"`
	Branches  []branch `json:"branches,omitempty"`
}

type branch struct {
	Value        string            `json:"value"`
	NodeID       string            `json:"node"`
	Distribution tree.Distribution `json:"dist"`
}

// flatten takes the root of a tree and returns the serialized nodes in
// pre-order, with sequential IDs starting at "1" for the root.
func flatten(root tree.Node) ([]*node, error) {
	var nodes []*node
	var nextID int
	var visit func(n tree.Node) (string, error)
	visit = func(n tree.Node) (string, error) {
		nextID++
		id := strconv.Itoa(nextID)
		switch n := n.(type) {
		case *tree.Leaf:
			nodes = append(nodes, &node{ID: id, Kind: leafKind, Class: n.Class})
		case *tree.Internal:
			jn := &node{ID: id, Kind: internalKind, Attribute: n.Attribute}
			nodes = append(nodes, jn)
			for _, v := range n.Values {
				childID, err := visit(n.Children[v])
				if err != nil {
					return "", err
				}
				jn.Branches = append(jn.Branches, branch{Value: v, NodeID: childID, Distribution: n.Distributions[v]})
			}
		default:
			return "", fmt.Errorf("encoding node: unknown node type %T", n)
		}
		return id, nil
	}
	if _, err := visit(root); err != nil {
		return nil, err
	}
	return nodes, nil
}

// assemble takes the serialized nodes and the ID of the root and returns
// the rebuilt root node with parent references reattached by AddChild.
// Every node must be reachable exactly once from the root.
func assemble(nodes []*node, rootID string) (tree.Node, error) {
	byID := make(map[string]*node, len(nodes))
	for i, jn := range nodes {
		if jn == nil {
			return nil, fmt.Errorf("decoding tree: null node at position %d", i)
		}
		if _, ok := byID[jn.ID]; ok {
			return nil, fmt.Errorf("decoding tree: duplicate node id %q", jn.ID)
		}
		byID[jn.ID] = jn
	}
	visited := make(map[string]bool, len(nodes))
	var build func(id string) (tree.Node, error)
	build = func(id string) (tree.Node, error) {
		jn, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("decoding tree: unknown node id %q", id)
		}
		if visited[id] {
			return nil, fmt.Errorf("decoding tree: node %q referenced more than once", id)
		}
		visited[id] = true
		switch jn.Kind {
		case leafKind:
			return tree.NewLeaf(jn.Class), nil
		case internalKind:
			if jn.Attribute == "" {
				return nil, fmt.Errorf("decoding node %q: internal node without attribute", id)
			}
			in := tree.NewInternal(jn.Attribute)
			for _, b := range jn.Branches {
				child, err := build(b.NodeID)
				if err != nil {
					return nil, err
				}
				d := b.Distribution
				if d == nil {
					d = tree.Distribution{}
				}
				in.AddChild(b.Value, child, d)
			}
			return in, nil
		}
		return nil, fmt.Errorf("decoding node %q: unknown node kind %q", id, jn.Kind)
	}
	root, err := build(rootID)
	if err != nil {
		return nil, err
	}
	if len(visited) != len(nodes) {
		return nil, fmt.Errorf("decoding tree: %d nodes not reachable from root %q", len(nodes)-len(visited), rootID)
	}
	return root, nil
}
