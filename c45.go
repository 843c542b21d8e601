/*
Package c45 grows categorical decision trees from the records of a
dataset.DataSource with the C4.5 algorithm: each node splits records on the
attribute with the highest information gain (or gain ratio) until the
records of a branch share a class or no attribute is left to split on.
*/
package c45

import (
	"context"
	"fmt"
	"io/ioutil"
	"strings"
	"time"

	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/google/uuid"
	"github.com/pbanos/c45/dataset"
	"github.com/pbanos/c45/feature"
	"github.com/pbanos/c45/tree"
	"github.com/sirupsen/logrus"
)

// Criterion selects the score used to pick split attributes.
type Criterion int

const (
	// InformationGain scores attributes by the entropy reduction of
	// splitting on them.
	InformationGain Criterion = iota + 1
	// GainRatio scores attributes by their information gain divided
	// by their split information.
	GainRatio
)

func (c Criterion) String() string {
	switch c {
	case InformationGain:
		return "information-gain"
	case GainRatio:
		return "gain-ratio"
	}
	return fmt.Sprintf("Criterion(%d)", int(c))
}

/*
ParseCriterion takes the name of a criterion ("information-gain" or
"gain-ratio", also "gain" and "ratio") and returns it.
*/
func ParseCriterion(name string) (Criterion, error) {
	switch strings.ToLower(name) {
	case "information-gain", "gain":
		return InformationGain, nil
	case "gain-ratio", "ratio":
		return GainRatio, nil
	}
	return 0, &ConfigError{"criterion", fmt.Sprintf("%q is unknown", name)}
}

/*
Config holds the options to grow trees. Target, Criterion and Dataset are
required.
*/
type Config struct {
	// Target is the attribute the trees predict
	Target string
	// Criterion is the score used to select split attributes
	Criterion Criterion
	// Dataset is the source of the training records
	Dataset dataset.DataSource
	// Logger receives debug information on every node. If nil,
	// nothing is logged.
	Logger logrus.FieldLogger
	// Metrics, if not nil, receives counts of nodes and trees
	Metrics *Metrics
}

// Builder grows trees according to its configuration.
type Builder struct {
	target    string
	criterion Criterion
	ds        dataset.DataSource
	logger    logrus.FieldLogger
	metrics   *Metrics
}

/*
New takes a Config and returns a Builder for it, or a *ConfigError if a
required option is missing or invalid.
*/
func New(cfg Config) (*Builder, error) {
	if cfg.Target == "" {
		return nil, &ConfigError{"target", "is required"}
	}
	if cfg.Dataset == nil {
		return nil, &ConfigError{"dataset", "is required"}
	}
	switch cfg.Criterion {
	case InformationGain, GainRatio:
	case 0:
		return nil, &ConfigError{"criterion", "is required"}
	default:
		return nil, &ConfigError{"criterion", fmt.Sprintf("%v is unknown", cfg.Criterion)}
	}
	logger := cfg.Logger
	if logger == nil {
		l := logrus.New()
		l.Out = ioutil.Discard
		logger = l
	}
	return &Builder{cfg.Target, cfg.Criterion, cfg.Dataset, logger, cfg.Metrics}, nil
}

/*
Build takes a context and initial criteria (nil for none) and grows a tree
from the records that satisfy them. Attributes constrained by the
criteria are never used to split.

It returns a *ConfigError if the target is not an attribute of the dataset,
ErrEmptyDataset if the dataset has no records, a *DataAccessError if the
dataset fails, or the context error if it is cancelled or times out.
*/
func (b *Builder) Build(ctx context.Context, criteria feature.Criteria) (t *tree.Tree, err error) {
	start := time.Now()
	defer func() {
		b.metrics.tree(err, time.Since(start).Seconds())
	}()
	if criteria == nil {
		criteria = feature.Criteria{}
	}
	s, err := NewStatistics(ctx, b.ds, b.target)
	if err != nil {
		return nil, err
	}
	count, err := b.ds.CountMatching(ctx, feature.Criteria{})
	if err != nil {
		return nil, &DataAccessError{"count", err}
	}
	if count == 0 || len(s.Classes()) == 0 {
		return nil, ErrEmptyDataset
	}
	eligible := linkedhashset.New()
	for _, a := range s.Eligible(criteria) {
		eligible.Add(a)
	}
	b.logger.WithFields(logrus.Fields{
		"target":    b.target,
		"criterion": b.criterion.String(),
		"records":   count,
		"criteria":  criteria.String(),
	}).Debug("growing tree")
	root, err := b.node(ctx, s, criteria, eligible)
	if err != nil {
		return nil, err
	}
	return tree.New(uuid.New().String(), b.target, s.Classes(), root), nil
}

func (b *Builder) node(ctx context.Context, s *Statistics, criteria feature.Criteria, eligible *linkedhashset.Set) (tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	classes := s.Classes()
	d, err := s.ClassDistribution(ctx, criteria)
	if err != nil {
		return nil, err
	}
	total := d.Total()
	for _, c := range classes {
		if d[c] == total {
			b.metrics.leaf(stopPure)
			return tree.NewLeaf(c), nil
		}
	}
	logger := b.logger.WithField("criteria", criteria.String())
	if eligible.Empty() {
		class, _, _ := d.Majority(classes)
		b.metrics.leaf(stopNoAttributes)
		logger.WithField("class", class).Debug("no attributes left to split on")
		return tree.NewLeaf(class), nil
	}
	attributes := setStrings(eligible)
	scores, partitions, err := s.score(ctx, attributes, criteria, Entropy(d), b.criterion)
	if err != nil {
		return nil, err
	}
	best, score, _ := scores.Best(attributes)
	logger.WithFields(logrus.Fields{
		"attribute": best,
		"score":     score,
	}).Debug("splitting node")
	remaining := linkedhashset.New()
	for _, a := range attributes {
		if a != best {
			remaining.Add(a)
		}
	}
	n := tree.NewInternal(best)
	b.metrics.internal()
	p := partitions[best]
	for _, v := range p.Values {
		bd := p.Distributions[v]
		branchCriteria := criteria.With(best, v)
		var child tree.Node
		switch {
		case bd.Total() == 0:
			child, err = b.emptyPartitionLeaf(ctx, s, best, v)
			if err != nil {
				return nil, err
			}
		case remaining.Empty():
			class, _, _ := bd.Majority(classes)
			b.metrics.leaf(stopExhausted)
			child = tree.NewLeaf(class)
		default:
			child, err = b.node(ctx, s, branchCriteria, remaining)
			if err != nil {
				return nil, err
			}
		}
		n.AddChild(v, child, bd)
	}
	return n, nil
}

// emptyPartitionLeaf returns a leaf for a branch without records labelled
// with the majority class of all records taking the branch value, regardless
// of the rest of the path.
func (b *Builder) emptyPartitionLeaf(ctx context.Context, s *Statistics, attribute, value string) (tree.Node, error) {
	d, err := s.ClassDistribution(ctx, feature.Criteria{attribute: value})
	if err != nil {
		return nil, err
	}
	class, _, ok := d.Majority(s.Classes())
	if !ok {
		class = s.Classes()[0]
	}
	b.metrics.leaf(stopEmptyPartition)
	return tree.NewLeaf(class), nil
}

func setStrings(s *linkedhashset.Set) []string {
	values := s.Values()
	result := make([]string, 0, len(values))
	for _, v := range values {
		result = append(result, v.(string))
	}
	return result
}
