/*
Package frame provides an implementation of dataset.DataSource on a gota
DataFrame, usually read from a CSV file whose header row names the
attributes.
*/
package frame

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pbanos/c45/dataset"
	"github.com/pbanos/c45/feature"
	"github.com/pkg/errors"
)

type frameDataSource struct {
	df     dataframe.DataFrame
	names  []string
	values map[string][]string
}

/*
New takes a gota DataFrame and returns a dataset.DataSource on it. Its
attributes are the columns of the frame in order and the distinct values
of each attribute are returned in the order they first appear. All
columns are compared as strings.
*/
func New(df dataframe.DataFrame) (dataset.DataSource, error) {
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "invalid data frame")
	}
	fds := &frameDataSource{
		df:     df,
		names:  df.Names(),
		values: make(map[string][]string),
	}
	for _, n := range fds.names {
		seen := make(map[string]bool)
		for _, v := range df.Col(n).Records() {
			if !seen[v] {
				seen[v] = true
				fds.values[n] = append(fds.values[n], v)
			}
		}
	}
	return fds, nil
}

/*
ReadCSV takes an io.Reader with CSV content, with a header row naming
the attributes, and returns a dataset.DataSource with its records.
No type detection is done: every value is taken as a string.
*/
func ReadCSV(r io.Reader) (dataset.DataSource, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "parsing csv")
	}
	return New(df)
}

// ReadCSVFile takes the path to a CSV file and returns a dataset.DataSource
// with its records as ReadCSV does.
func ReadCSVFile(path string) (dataset.DataSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	return ReadCSV(f)
}

func (fds *frameDataSource) CountMatching(ctx context.Context, c feature.Criteria) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	df := fds.df
	for _, a := range c.Attributes() {
		if _, ok := fds.values[a]; !ok && !fds.hasAttribute(a) {
			return 0, fmt.Errorf("unknown attribute %q", a)
		}
		df = df.Filter(dataframe.F{Colname: a, Comparator: series.Eq, Comparando: c[a]})
		if df.Err != nil {
			return 0, errors.Wrapf(df.Err, "filtering records on %s", a)
		}
		if df.Nrow() == 0 {
			return 0, nil
		}
	}
	return df.Nrow(), nil
}

func (fds *frameDataSource) Attributes(context.Context) ([]string, error) {
	return append([]string(nil), fds.names...), nil
}

func (fds *frameDataSource) DistinctValues(ctx context.Context, attribute string) ([]string, error) {
	if !fds.hasAttribute(attribute) {
		return nil, fmt.Errorf("unknown attribute %q", attribute)
	}
	return append([]string(nil), fds.values[attribute]...), nil
}

func (fds *frameDataSource) Records(ctx context.Context) ([]feature.Record, error) {
	rows := fds.df.Records()
	if len(rows) < 2 {
		return nil, nil
	}
	header := rows[0]
	records := make([]feature.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		r := make(feature.Record, len(header))
		for i, n := range header {
			r[n] = row[i]
		}
		records = append(records, r)
	}
	return records, nil
}

func (fds *frameDataSource) hasAttribute(attribute string) bool {
	for _, n := range fds.names {
		if n == attribute {
			return true
		}
	}
	return false
}
