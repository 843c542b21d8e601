package tree

import (
	"context"
	"fmt"

	"github.com/pbanos/c45/feature"
)

// Tree represents a decision tree. It is composed of its root node,
// the name of the target attribute it predicts and the classes (values
// of the target attribute) seen while growing it, in canonical order.
type Tree struct {
	ID      string
	Target  string
	Classes []string
	Root    Node
}

// New takes an ID, the target attribute, its classes and the root node and
// returns a tree made of them.
func New(id, target string, classes []string, root Node) *Tree {
	return &Tree{ID: id, Target: target, Classes: classes, Root: root}
}

// Classify takes a sample and returns the class the tree predicts for it,
// Unclassified if the sample takes a value the tree does not know about,
// or an error if the prediction could not be made.
func (t *Tree) Classify(ctx context.Context, s feature.Sample) (string, error) {
	if t == nil || t.Root == nil {
		return "", fmt.Errorf("nil tree cannot classify samples")
	}
	return t.Root.Classify(ctx, s)
}

/*
Test takes a context.Context and a slice of labeled records and returns three
values:
  - the rate of records whose target value the tree predicts correctly
  - the number of records the tree returned Unclassified for
  - an error if a prediction could not be made for reasons other than the
    tree not knowing a value. If this is not nil, the other values will be
    0.0 and 0 respectively
*/
func (t *Tree) Test(ctx context.Context, records []feature.Record) (float64, int, error) {
	if len(records) == 0 {
		return 0.0, 0, nil
	}
	hits, unclassified, err := t.Count(ctx, records)
	if err != nil {
		return 0.0, 0, err
	}
	return float64(hits) / float64(len(records)), unclassified, nil
}

/*
Count takes a context.Context and a slice of labeled records and returns
the number of records whose target value the tree predicts correctly and
the number of records the tree returned Unclassified for, or an error if a
prediction could not be made.
*/
func (t *Tree) Count(ctx context.Context, records []feature.Record) (int, int, error) {
	var hits, unclassified int
	for _, r := range records {
		class, err := t.Classify(ctx, r)
		if err != nil {
			return 0, 0, err
		}
		if class == Unclassified {
			unclassified++
			continue
		}
		if class == r[t.Target] {
			hits++
		}
	}
	return hits, unclassified, nil
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context and a node
// as parameters, and goes through the tree running the
// function with the context and every traversed node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true.
// Children are visited in the order their branches were added.
// If the given context times out or is cancelled, the context
// error is returned. If the call to the function returns an
// error, the traversing is aborted and the error is returned.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, Node) error) error {
	if t.Root == nil {
		return nil
	}
	return traverse(ctx, t.Root, bottomup, f)
}

func traverse(ctx context.Context, n Node, bottomup bool, f func(context.Context, Node) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		if err = f(ctx, n); err != nil {
			return err
		}
	}
	if in, ok := n.(*Internal); ok {
		for _, v := range in.Values {
			if err = traverse(ctx, in.Children[v], bottomup, f); err != nil {
				return err
			}
		}
	}
	if bottomup {
		return f(ctx, n)
	}
	return nil
}

// Depth returns the number of internal nodes in the longest path from
// the root to a leaf.
func (t *Tree) Depth() int {
	return depth(t.Root)
}

func depth(n Node) int {
	in, ok := n.(*Internal)
	if !ok {
		return 0
	}
	var max int
	for _, c := range in.Children {
		if d := depth(c); d > max {
			max = d
		}
	}
	return max + 1
}

// String renders the tree as text. An internal root is rendered with
// Internal.Render; a tree made of a single leaf is rendered as
// "target : class".
func (t *Tree) String() string {
	switch root := t.Root.(type) {
	case *Internal:
		return root.Render("")
	case *Leaf:
		return fmt.Sprintf("%s : %s\n", t.Target, root.Class)
	}
	return ""
}
