package feature

import (
	"context"
	"fmt"
)

/*
Sample is an interface for something that can be classified by a tree.

Its ValueFor method returns the value the sample takes for the attribute
passed as parameter, a boolean that is false when the sample has no value
for it, and an error if the value could not be obtained.
*/
type Sample interface {
	ValueFor(ctx context.Context, attribute string) (string, bool, error)
}

/*
Record is a sample whose values are all known beforehand, a mapping from
attribute names to values.
*/
type Record map[string]string

// ValueFor returns the value of the record for the given attribute.
func (r Record) ValueFor(_ context.Context, attribute string) (string, bool, error) {
	v, ok := r[attribute]
	return v, ok, nil
}

func (r Record) String() string {
	return fmt.Sprintf("[%v]", map[string]string(r))
}
