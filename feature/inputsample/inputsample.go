/*
Package inputsample provides an implementation of feature.Sample that is read
from an io.Reader.
*/
package inputsample

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pbanos/c45/feature"
)

/*
ReadSample represents a sample whose attribute values
are retrieved from a reader. A value will be
requested using a ValueRequester before reading it.
*/
type readSample struct {
	obtainedValues map[string]*string
	undefinedValue string
	scanner        *bufio.Scanner
	valueRequester ValueRequester
	knownValues    map[string][]string
}

/*
ValueRequester represents a way to ask
for attribute values and reject the given values.
*/
type ValueRequester interface {
	RequestValueFor(attribute string, knownValues []string) error
	RejectValueFor(attribute, value string) error
}

/*
New takes an io.Reader, a map of attribute names to the values known
for them, a ValueRequester and an undefinedValue coding string
and returns a feature.Sample.

The returned Sample ValueFor method reads values first
requesting them with the given ValueRequester and
then parsing the values from the reader. Each value is read only
once and remembered for subsequent calls.

The parsing expects each value to be presented ending with the
'\n' character, that is in new lines. Also, the undefinedValue
string followed by the '\n' character will be interpreted as an
undefined value, that is, the sample has no value for the attribute.

Empty lines are rejected with the ValueRequester's RejectValueFor
method and reading goes on with the next line. Values not in the
known values of the attribute are accepted: a tree will return
its unclassified result for them.
*/
func New(r io.Reader, knownValues map[string][]string, valueRequester ValueRequester, undefinedValue string) feature.Sample {
	scanner := bufio.NewScanner(r)
	return &readSample{make(map[string]*string), undefinedValue, scanner, valueRequester, knownValues}
}

func (rs *readSample) ValueFor(ctx context.Context, attribute string) (string, bool, error) {
	value, ok := rs.obtainedValues[attribute]
	if ok {
		if value == nil {
			return "", false, nil
		}
		return *value, true, nil
	}
	err := rs.valueRequester.RequestValueFor(attribute, rs.knownValues[attribute])
	if err != nil {
		return "", false, err
	}
	for rs.scanner.Scan() {
		if err = ctx.Err(); err != nil {
			return "", false, err
		}
		line := strings.TrimSpace(rs.scanner.Text())
		if line == rs.undefinedValue {
			rs.obtainedValues[attribute] = nil
			return "", false, nil
		}
		if line != "" {
			rs.obtainedValues[attribute] = &line
			return line, true, nil
		}
		err = rs.valueRequester.RejectValueFor(attribute, line)
		if err != nil {
			return "", false, err
		}
	}
	err = rs.scanner.Err()
	if err != nil {
		return "", false, err
	}
	return "", false, fmt.Errorf("EOF when requesting value for %s", attribute)
}

type writerRequester struct {
	w              io.Writer
	undefinedValue string
}

/*
NewWriterRequester takes an io.Writer and the undefinedValue coding
string and returns a ValueRequester that writes its prompts to the writer.
*/
func NewWriterRequester(w io.Writer, undefinedValue string) ValueRequester {
	return &writerRequester{w, undefinedValue}
}

func (wr *writerRequester) RequestValueFor(attribute string, knownValues []string) error {
	var err error
	if len(knownValues) > 0 {
		_, err = fmt.Fprintf(wr.w, "What is the value for %s? [%s] (%s if undefined)\n", attribute, strings.Join(knownValues, ", "), wr.undefinedValue)
	} else {
		_, err = fmt.Fprintf(wr.w, "What is the value for %s? (%s if undefined)\n", attribute, wr.undefinedValue)
	}
	return err
}

func (wr *writerRequester) RejectValueFor(attribute, value string) error {
	_, err := fmt.Fprintf(wr.w, "%q is not a valid value for %s\n", value, attribute)
	return err
}
