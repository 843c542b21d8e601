package feature

import (
	"fmt"
	"sort"
	"strings"
)

/*
Criteria represents a conjunction of constraints on attributes: a sample
satisfies the criteria when, for every attribute in it, the sample takes
the given value.

Criteria are accumulated along the path from the root of a tree to one of
its nodes, so that every node is scoped to the samples satisfying the
criteria of its path.
*/
type Criteria map[string]string

/*
With takes an attribute name and a value and returns a copy of the
criteria extended with the constraint attribute = value. The receiver
is never modified, so that sibling branches do not share constraints.
*/
func (c Criteria) With(attribute, value string) Criteria {
	result := make(Criteria, len(c)+1)
	for a, v := range c {
		result[a] = v
	}
	result[attribute] = value
	return result
}

/*
Has returns whether the criteria impose a constraint on the given attribute.
*/
func (c Criteria) Has(attribute string) bool {
	_, ok := c[attribute]
	return ok
}

/*
Attributes returns the names of the constrained attributes sorted
alphabetically.
*/
func (c Criteria) Attributes() []string {
	attributes := make([]string, 0, len(c))
	for a := range c {
		attributes = append(attributes, a)
	}
	sort.Strings(attributes)
	return attributes
}

/*
SatisfiedBy takes a record and returns whether it takes the constrained
value for every attribute in the criteria. A record lacking any of the
constrained attributes does not satisfy them.
*/
func (c Criteria) SatisfiedBy(r Record) bool {
	for a, v := range c {
		rv, ok := r[a]
		if !ok || rv != v {
			return false
		}
	}
	return true
}

func (c Criteria) String() string {
	if len(c) == 0 {
		return "{}"
	}
	constraints := make([]string, 0, len(c))
	for _, a := range c.Attributes() {
		constraints = append(constraints, fmt.Sprintf("%s is %s", a, c[a]))
	}
	return fmt.Sprintf("{%s}", strings.Join(constraints, " and "))
}
