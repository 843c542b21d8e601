package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/c45/feature"
)

/*
Unclassified is the class returned when a sample takes a value for a split
attribute that was never observed while growing the tree. Trees are never
grown for a target taking this value, so it cannot be mistaken for a
predicted class.
*/
const Unclassified = "unclassified"

/*
Node is a node of the tree, either a *Leaf or an *Internal node.
*/
type Node interface {
	// Parent returns the internal node directly above
	// this one or nil for the root of a tree.
	Parent() *Internal
	// Classify takes a sample and returns the class the
	// subtree under the node predicts for it.
	Classify(ctx context.Context, s feature.Sample) (string, error)

	setParent(*Internal)
}

/*
Leaf is a terminal node of the tree that predicts a fixed class.
*/
type Leaf struct {
	// The class predicted for samples reaching the leaf
	Class  string
	parent *Internal
}

/*
Internal is a node that splits samples according to the value they
take for an attribute.
*/
type Internal struct {
	// The attribute whose value selects the child to descend to
	Attribute string
	// The values of the attribute with a branch, in the order
	// they were added.
	Values []string
	// The node under each branch
	Children map[string]Node
	// The class distribution of the training samples that reached
	// each branch.
	Distributions map[string]Distribution
	parent        *Internal
}

// MissingAttributeError is returned when classifying a sample that has no
// value for the attribute an internal node splits on.
type MissingAttributeError struct {
	Attribute string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("sample has no value for split attribute %s", e.Attribute)
}

// NewLeaf returns a leaf predicting the given class.
func NewLeaf(class string) *Leaf {
	return &Leaf{Class: class}
}

// NewInternal returns an internal node without branches that splits on
// the given attribute.
func NewInternal(attribute string) *Internal {
	return &Internal{
		Attribute:     attribute,
		Children:      make(map[string]Node),
		Distributions: make(map[string]Distribution),
	}
}

// Parent returns the internal node the leaf hangs from.
func (l *Leaf) Parent() *Internal {
	return l.parent
}

// Classify returns the class of the leaf.
func (l *Leaf) Classify(context.Context, feature.Sample) (string, error) {
	return l.Class, nil
}

func (l *Leaf) setParent(p *Internal) {
	l.parent = p
}

func (l *Leaf) String() string {
	return fmt.Sprintf("{Leaf %s}", l.Class)
}

// Parent returns the internal node this one hangs from.
func (n *Internal) Parent() *Internal {
	return n.parent
}

func (n *Internal) setParent(p *Internal) {
	n.parent = p
}

/*
AddChild takes a value of the node attribute, the node for the branch of
that value and the class distribution of the training samples that reached
it, and attaches the child, setting the receiver as its parent. Adding a
value twice replaces the previous branch while keeping its position.
*/
func (n *Internal) AddChild(value string, child Node, d Distribution) {
	if _, ok := n.Children[value]; !ok {
		n.Values = append(n.Values, value)
	}
	n.Children[value] = child
	n.Distributions[value] = d
	child.setParent(n)
}

// Child returns the node under the branch for the given value, if any.
func (n *Internal) Child(value string) (Node, bool) {
	c, ok := n.Children[value]
	return c, ok
}

/*
Classify takes a sample and descends through the branch matching the
value of the sample for the node attribute until a leaf is reached, then
returns its class. Unclassified is returned if the sample takes a value
without a branch. If the sample has no value for the attribute a
*MissingAttributeError is returned.
*/
func (n *Internal) Classify(ctx context.Context, s feature.Sample) (string, error) {
	var current Node = n
	for {
		in, ok := current.(*Internal)
		if !ok {
			return current.Classify(ctx, s)
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		v, ok, err := s.ValueFor(ctx, in.Attribute)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", &MissingAttributeError{in.Attribute}
		}
		child, ok := in.Children[v]
		if !ok {
			return Unclassified, nil
		}
		current = child
	}
}

/*
Render returns a text representation of the subtree under the node, one line
per branch in pre-order. Each line starts with the given indent followed by
"attribute = value"; branches ending in a leaf are completed with the leaf
class and the training sample counts for the branch, while the subtree of
branches ending in internal nodes follows in the next lines with a deeper
indent.
*/
func (n *Internal) Render(indent string) string {
	var b strings.Builder
	n.render(&b, indent)
	return b.String()
}

func (n *Internal) render(b *strings.Builder, indent string) {
	for _, v := range n.Values {
		fmt.Fprintf(b, "%s%s = %s", indent, n.Attribute, v)
		switch child := n.Children[v].(type) {
		case *Leaf:
			fmt.Fprintf(b, " : %s %s\n", child.Class, countString(n.Distributions[v], child.Class))
		case *Internal:
			b.WriteString("\n")
			child.render(b, indent+"|\t")
		}
	}
}

func countString(d Distribution, class string) string {
	total := d.Total()
	count := d[class]
	if count < total {
		return fmt.Sprintf("(%d.0/%d.0)", count, total)
	}
	return fmt.Sprintf("(%d.0)", count)
}

func (n *Internal) String() string {
	return fmt.Sprintf("{Internal %s %v}", n.Attribute, n.Values)
}
