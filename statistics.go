package c45

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/pbanos/c45/dataset"
	"github.com/pbanos/c45/feature"
	"github.com/pbanos/c45/tree"
)

// tolerance under which two scores are considered tied
const tolerance = 1e-12

/*
Entropy takes a distribution and returns its entropy in bits. Values
with no samples are ignored and the entropy of an empty distribution is 0.
Terms are added in increasing order of count, so distributions with the
same counts under different labels have exactly the same entropy.
*/
func Entropy(d tree.Distribution) float64 {
	counts := make([]int, 0, len(d))
	total := 0
	for _, c := range d {
		if c > 0 {
			counts = append(counts, c)
			total += c
		}
	}
	if total == 0 {
		return 0.0
	}
	sort.Ints(counts)
	var result float64
	for _, c := range counts {
		p := float64(c) / float64(total)
		result -= p * math.Log2(p)
	}
	return result
}

// gainRatio is 0 when the split information is 0.
func gainRatio(gain, splitInformation float64) float64 {
	if splitInformation == 0 {
		return 0.0
	}
	return gain / splitInformation
}

/*
Scores holds a score (information gain or gain ratio) for each attribute.
*/
type Scores map[string]float64

/*
Best takes the canonical order of the attributes and returns the attribute
with the highest score and that score. Among attributes tied at the highest
score (within 1e-12) the one appearing first in the order is returned; scored attributes
missing from the order are never returned. It returns false if none of the
attributes in the order has a score.
*/
func (s Scores) Best(order []string) (string, float64, bool) {
	var (
		best  string
		score float64
		found bool
	)
	for _, a := range order {
		v, ok := s[a]
		if !ok {
			continue
		}
		if !found || v > score+tolerance {
			best, score, found = a, v, true
		}
	}
	return best, score, found
}

/*
Statistics computes the measures used to select split attributes on the
records of a data source, for a target attribute.

Attributes, classes and attribute values are read from the data source
once when the Statistics is built and kept afterwards. Record counts are
queried every time they are needed.
*/
type Statistics struct {
	ds         dataset.DataSource
	target     string
	attributes []string
	classes    []string
	values     map[string][]string
}

/*
NewStatistics takes a context, a data source and the name of the target
attribute and returns a Statistics for them. A *ConfigError is returned if
the data source has no such attribute or one of its values is
tree.Unclassified, and a *DataAccessError if it fails.
*/
func NewStatistics(ctx context.Context, ds dataset.DataSource, target string) (*Statistics, error) {
	attributes, err := ds.Attributes(ctx)
	if err != nil {
		return nil, &DataAccessError{"attributes", err}
	}
	s := &Statistics{
		ds:         ds,
		target:     target,
		attributes: attributes,
		values:     make(map[string][]string, len(attributes)),
	}
	found := false
	for _, a := range attributes {
		if a == target {
			found = true
			break
		}
	}
	if !found {
		return nil, &ConfigError{"target", "is not an attribute of the dataset"}
	}
	s.classes, err = s.Values(ctx, target)
	if err != nil {
		return nil, err
	}
	for _, c := range s.classes {
		if c == tree.Unclassified {
			return nil, &ConfigError{"target", fmt.Sprintf("has the reserved class %q", tree.Unclassified)}
		}
	}
	return s, nil
}

// Target returns the name of the target attribute.
func (s *Statistics) Target() string {
	return s.target
}

// Classes returns the values of the target attribute in canonical order.
func (s *Statistics) Classes() []string {
	return append([]string(nil), s.classes...)
}

// Attributes returns the attributes of the data source in canonical order.
func (s *Statistics) Attributes() []string {
	return append([]string(nil), s.attributes...)
}

/*
Eligible takes criteria and returns, in canonical order, the attributes
that can still be used to split records satisfying them: all attributes
except the target and the ones constrained by the criteria.
*/
func (s *Statistics) Eligible(criteria feature.Criteria) []string {
	eligible := make([]string, 0, len(s.attributes))
	for _, a := range s.attributes {
		if a != s.target && !criteria.Has(a) {
			eligible = append(eligible, a)
		}
	}
	return eligible
}

/*
Values takes an attribute and returns the values observed for it
across the data source.
*/
func (s *Statistics) Values(ctx context.Context, attribute string) ([]string, error) {
	if values, ok := s.values[attribute]; ok {
		return values, nil
	}
	values, err := s.ds.DistinctValues(ctx, attribute)
	if err != nil {
		return nil, &DataAccessError{"distinct values of " + attribute, err}
	}
	s.values[attribute] = values
	return values, nil
}

/*
ClassDistribution takes criteria and returns the number of records of
each class that satisfy them. Every class has an entry, even if its count
is 0.
*/
func (s *Statistics) ClassDistribution(ctx context.Context, criteria feature.Criteria) (tree.Distribution, error) {
	d := make(tree.Distribution, len(s.classes))
	for _, c := range s.classes {
		if v, ok := criteria[s.target]; ok && v != c {
			d[c] = 0
			continue
		}
		n, err := s.ds.CountMatching(ctx, criteria.With(s.target, c))
		if err != nil {
			return nil, &DataAccessError{"count", err}
		}
		d[c] = n
	}
	return d, nil
}

/*
Partition takes an attribute and criteria and returns the partition of the
records satisfying the criteria according to the attribute.
*/
func (s *Statistics) Partition(ctx context.Context, attribute string, criteria feature.Criteria) (*Partition, error) {
	values, err := s.Values(ctx, attribute)
	if err != nil {
		return nil, err
	}
	p := &Partition{
		Attribute:     attribute,
		Values:        values,
		Distributions: make(map[string]tree.Distribution, len(values)),
	}
	for _, v := range values {
		d, err := s.ClassDistribution(ctx, criteria.With(attribute, v))
		if err != nil {
			return nil, err
		}
		p.Distributions[v] = d
	}
	return p, nil
}

/*
InformationGain takes an attribute and criteria and returns the reduction
of the entropy of the class distribution of the records satisfying the
criteria obtained by splitting them according to the attribute.
*/
func (s *Statistics) InformationGain(ctx context.Context, attribute string, criteria feature.Criteria) (float64, error) {
	d, err := s.ClassDistribution(ctx, criteria)
	if err != nil {
		return 0.0, err
	}
	p, err := s.Partition(ctx, attribute, criteria)
	if err != nil {
		return 0.0, err
	}
	return Entropy(d) - p.Remainder(), nil
}

/*
SplitInformation takes an attribute and criteria and returns the entropy of
the distribution of the records satisfying the criteria among the values of
the attribute.
*/
func (s *Statistics) SplitInformation(ctx context.Context, attribute string, criteria feature.Criteria) (float64, error) {
	p, err := s.Partition(ctx, attribute, criteria)
	if err != nil {
		return 0.0, err
	}
	return p.SplitInformation(), nil
}

/*
ScoreAll takes criteria and a criterion and returns the score for that
criterion of every attribute eligible under the criteria.
*/
func (s *Statistics) ScoreAll(ctx context.Context, criteria feature.Criteria, criterion Criterion) (Scores, error) {
	d, err := s.ClassDistribution(ctx, criteria)
	if err != nil {
		return nil, err
	}
	scores, _, err := s.score(ctx, s.Eligible(criteria), criteria, Entropy(d), criterion)
	return scores, err
}

func (s *Statistics) score(ctx context.Context, attributes []string, criteria feature.Criteria, entropy float64, criterion Criterion) (Scores, map[string]*Partition, error) {
	scores := make(Scores, len(attributes))
	partitions := make(map[string]*Partition, len(attributes))
	for _, a := range attributes {
		p, err := s.Partition(ctx, a, criteria)
		if err != nil {
			return nil, nil, err
		}
		partitions[a] = p
		gain := entropy - p.Remainder()
		switch criterion {
		case GainRatio:
			scores[a] = gainRatio(gain, p.SplitInformation())
		default:
			scores[a] = gain
		}
	}
	return scores, partitions, nil
}
