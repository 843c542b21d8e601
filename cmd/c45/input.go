package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pbanos/c45/dataset"
	"github.com/pbanos/c45/dataset/frame"
	"github.com/pbanos/c45/dataset/mongodataset"
	"github.com/pbanos/c45/dataset/sqldataset"
	"github.com/pbanos/c45/feature"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// inputConfig holds the flags that select a dataset to read records from.
type inputConfig struct {
	dataInput  string
	table      string
	attributes string
}

func (ic *inputConfig) addFlags(cmd *cobra.Command, purpose string) {
	cmd.PersistentFlags().StringVarP(&(ic.dataInput), "input", "i", "", fmt.Sprintf("path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL (postgresql://) or MongoDB (mongodb://) connection URL with data to %s (defaults to STDIN, interpreted as CSV)", purpose))
	cmd.PersistentFlags().StringVar(&(ic.table), "table", "records", "name of the table with the records on SQL inputs")
	cmd.PersistentFlags().StringVar(&(ic.attributes), "attributes", "", "comma-separated attribute names, in canonical order, of the records on MongoDB inputs")
}

func (ic *inputConfig) Validate() error {
	if strings.HasPrefix(ic.dataInput, "mongodb://") && ic.attributes == "" {
		return fmt.Errorf("attributes flag is required for MongoDB inputs")
	}
	return nil
}

/*
dataSource returns the dataset selected by the input flags and a function
to release it.
*/
func (ic *inputConfig) dataSource(ctx context.Context, l logger) (dataset.DataSource, func(), error) {
	noop := func() {}
	switch {
	case ic.dataInput == "":
		l.Logf("Reading records from STDIN...")
		ds, err := frame.ReadCSV(os.Stdin)
		return ds, noop, err
	case strings.HasPrefix(ic.dataInput, "postgresql://"), strings.HasPrefix(ic.dataInput, "postgres://"):
		l.Logf("Opening table %s on PostgreSQL database...", ic.table)
		return ic.sqlDataSource(ctx, "postgres")
	case strings.HasPrefix(ic.dataInput, "mongodb://"):
		l.Logf("Opening MongoDB database...")
		session, err := mongodataset.Dial(ic.dataInput)
		if err != nil {
			return nil, noop, err
		}
		ds, err := mongodataset.Open(ctx, session, splitList(ic.attributes))
		if err != nil {
			session.Close()
			return nil, noop, err
		}
		return ds, session.Close, nil
	case strings.HasSuffix(ic.dataInput, ".db"):
		l.Logf("Opening table %s on SQLite3 file %s...", ic.table, ic.dataInput)
		return ic.sqlDataSource(ctx, "sqlite3")
	}
	l.Logf("Reading records from %s...", ic.dataInput)
	ds, err := frame.ReadCSVFile(ic.dataInput)
	return ds, noop, err
}

func (ic *inputConfig) sqlDataSource(ctx context.Context, driver string) (dataset.DataSource, func(), error) {
	db, err := sqldataset.Connect(ctx, driver, ic.dataInput)
	if err != nil {
		return nil, func() {}, err
	}
	ds, err := sqldataset.Open(ctx, db, ic.table)
	if err != nil {
		db.Close()
		return nil, func() {}, err
	}
	return ds, func() { db.Close() }, nil
}

// records returns all the records of the selected dataset.
func (ic *inputConfig) records(ctx context.Context, l logger) ([]feature.Record, error) {
	ds, release, err := ic.dataSource(ctx, l)
	if err != nil {
		return nil, err
	}
	defer release()
	return listRecords(ctx, ds)
}

func listRecords(ctx context.Context, ds dataset.DataSource) ([]feature.Record, error) {
	lister, ok := ds.(dataset.Lister)
	if !ok {
		return nil, fmt.Errorf("records of the input cannot be listed")
	}
	records, err := lister.Records(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing records")
	}
	return records, nil
}

func splitList(s string) []string {
	var result []string
	for _, e := range strings.Split(s, ",") {
		if e = strings.TrimSpace(e); e != "" {
			result = append(result, e)
		}
	}
	return result
}

/*
parseCriteria takes a comma-separated list of attribute=value constraints
and returns them as feature.Criteria.
*/
func parseCriteria(s string) (feature.Criteria, error) {
	criteria := feature.Criteria{}
	for _, c := range splitList(s) {
		parts := strings.SplitN(c, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid criterion %q, expected attribute=value", c)
		}
		criteria[parts[0]] = parts[1]
	}
	return criteria, nil
}
