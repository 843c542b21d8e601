/*
Package dataset defines the contract the tree builder uses to query the
records it learns from, together with an in-memory implementation of it.
*/
package dataset

import (
	"context"
	"fmt"

	"github.com/pbanos/c45/feature"
)

/*
DataSource represents a collection of records with categorical
attributes that can be counted.

Its CountMatching method takes a feature.Criteria and returns the number
of records that satisfy all its constraints. An empty Criteria matches
every record.

Its Attributes method returns the names of all the attributes in the
dataset in a stable canonical order. Implementations must return the
same order on every call.

Its DistinctValues method takes the name of an attribute and returns
all values observed for it across the dataset, in a stable order.

All methods take a context that may allow cancelling the operation.
*/
type DataSource interface {
	CountMatching(context.Context, feature.Criteria) (int, error)
	Attributes(context.Context) ([]string, error)
	DistinctValues(context.Context, string) ([]string, error)
}

/*
Lister is implemented by DataSources that can return all their records,
which allows evaluating a tree against them.
*/
type Lister interface {
	Records(context.Context) ([]feature.Record, error)
}

type memoryDataSource struct {
	attributes []string
	records    []feature.Record
	values     map[string][]string
}

/*
NewMemory takes the attribute names in canonical order and a slice of
records and returns a DataSource that keeps them in memory. The distinct
values of each attribute are returned in the order they were first seen.
An error is returned if an attribute is repeated or a record lacks a
value for one of them.
*/
func NewMemory(attributes []string, records []feature.Record) (DataSource, error) {
	mds := &memoryDataSource{
		attributes: append([]string(nil), attributes...),
		records:    records,
		values:     make(map[string][]string, len(attributes)),
	}
	seen := make(map[string]map[string]bool, len(attributes))
	for _, a := range attributes {
		if _, ok := seen[a]; ok {
			return nil, fmt.Errorf("attribute %q is defined twice", a)
		}
		seen[a] = make(map[string]bool)
	}
	for i, r := range records {
		for _, a := range attributes {
			v, ok := r[a]
			if !ok {
				return nil, fmt.Errorf("record %d has no value for attribute %q", i, a)
			}
			if !seen[a][v] {
				seen[a][v] = true
				mds.values[a] = append(mds.values[a], v)
			}
		}
	}
	return mds, nil
}

func (mds *memoryDataSource) CountMatching(ctx context.Context, c feature.Criteria) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(c) == 0 {
		return len(mds.records), nil
	}
	var count int
	for _, r := range mds.records {
		if c.SatisfiedBy(r) {
			count++
		}
	}
	return count, nil
}

func (mds *memoryDataSource) Attributes(ctx context.Context) ([]string, error) {
	return append([]string(nil), mds.attributes...), nil
}

func (mds *memoryDataSource) DistinctValues(ctx context.Context, attribute string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	values, ok := mds.values[attribute]
	if !ok && !mds.hasAttribute(attribute) {
		return nil, fmt.Errorf("unknown attribute %q", attribute)
	}
	return append([]string(nil), values...), nil
}

func (mds *memoryDataSource) Records(ctx context.Context) ([]feature.Record, error) {
	return mds.records, nil
}

func (mds *memoryDataSource) hasAttribute(attribute string) bool {
	for _, a := range mds.attributes {
		if a == attribute {
			return true
		}
	}
	return false
}
