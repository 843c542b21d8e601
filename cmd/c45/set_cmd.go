package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/c45/dataset/mongodataset"
	"github.com/pbanos/c45/dataset/sqldataset"
	"github.com/pbanos/c45/feature"
	"github.com/spf13/cobra"
)

type setCmdConfig struct {
	*rootCmdConfig
	inputConfig
	output      string
	outputTable string
}

func setCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &setCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Copy a set of data into a database",
		Long:  `Copy the records of a set of data into an SQLite3, PostgreSQL or MongoDB database to grow trees from it`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				exit(1, err)
			}
			ctx := config.Context()
			defer config.ContextCancelFunc()()
			ds, release, err := config.dataSource(ctx, config.logger)
			if err != nil {
				exit(2, fmt.Errorf("opening input set: %v", err))
			}
			defer release()
			attributes, err := ds.Attributes(ctx)
			if err != nil {
				exit(2, err)
			}
			records, err := listRecords(ctx, ds)
			if err != nil {
				exit(2, fmt.Errorf("reading input set: %v", err))
			}
			n, err := config.write(ctx, attributes, records)
			if err != nil {
				exit(3, fmt.Errorf("writing output set: %v", err))
			}
			config.Logf("%d records written", n)
		},
	}
	config.inputConfig.addFlags(cmd, "copy")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to an SQLite3 (.db) file, or a PostgreSQL (postgresql://) or MongoDB (mongodb://) connection URL to copy the records to (required)")
	cmd.PersistentFlags().StringVar(&(config.outputTable), "output-table", "records", "name of the table to create on SQL outputs")
	return cmd
}

func (scc *setCmdConfig) Validate() error {
	if scc.output == "" {
		return fmt.Errorf("required output flag was not set")
	}
	if _, ok := scc.outputDriver(); !ok && !strings.HasPrefix(scc.output, "mongodb://") {
		return fmt.Errorf("output must be an SQLite3 file or a PostgreSQL or MongoDB URL")
	}
	return scc.inputConfig.Validate()
}

func (scc *setCmdConfig) outputDriver() (string, bool) {
	switch {
	case strings.HasPrefix(scc.output, "postgresql://"), strings.HasPrefix(scc.output, "postgres://"):
		return "postgres", true
	case strings.HasSuffix(scc.output, ".db"):
		return "sqlite3", true
	}
	return "", false
}

func (scc *setCmdConfig) write(ctx context.Context, attributes []string, records []feature.Record) (int, error) {
	if driver, ok := scc.outputDriver(); ok {
		db, err := sqldataset.Connect(ctx, driver, scc.output)
		if err != nil {
			return 0, err
		}
		defer db.Close()
		ds, err := sqldataset.Create(ctx, db, scc.outputTable, attributes)
		if err != nil {
			return 0, err
		}
		return ds.Write(ctx, records)
	}
	session, err := mongodataset.Dial(scc.output)
	if err != nil {
		return 0, err
	}
	defer session.Close()
	ds, err := mongodataset.Open(ctx, session, attributes)
	if err != nil {
		return 0, err
	}
	return ds.Write(ctx, records)
}
