package c45

import (
	"github.com/pbanos/c45/tree"
)

/*
Partition represents the split of the records satisfying some criteria
according to the value they take for an attribute. For each observed
value of the attribute it holds the class distribution of the records
that satisfy the criteria and take that value.
*/
type Partition struct {
	Attribute     string
	Values        []string
	Distributions map[string]tree.Distribution
}

/*
Counts returns the number of records in the partition for each value of
the attribute, regardless of their class.
*/
func (p *Partition) Counts() tree.Distribution {
	counts := make(tree.Distribution, len(p.Values))
	for _, v := range p.Values {
		counts[v] = p.Distributions[v].Total()
	}
	return counts
}

/*
Remainder returns the entropy left after the split: the sum of the entropy
of every value distribution weighted by its share of the records of the
partition. It is 0 for a partition without records.
*/
func (p *Partition) Remainder() float64 {
	total := p.Counts().Total()
	if total == 0 {
		return 0.0
	}
	var result float64
	for _, v := range p.Values {
		d := p.Distributions[v]
		result += float64(d.Total()) / float64(total) * Entropy(d)
	}
	return result
}

/*
SplitInformation returns the entropy of the distribution of records among
the values of the attribute.
*/
func (p *Partition) SplitInformation() float64 {
	return Entropy(p.Counts())
}
