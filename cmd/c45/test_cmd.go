package main

import (
	"context"
	"fmt"

	"github.com/pbanos/c45/feature"
	"github.com/pbanos/c45/tree"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type testCmdConfig struct {
	*rootCmdConfig
	inputConfig
	storeConfig
	workers int
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the performance of a tree against a test data set`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				exit(1, err)
			}
			ctx := config.Context()
			defer config.ContextCancelFunc()()
			t, err := config.loadTree(ctx, config.logger)
			if err != nil {
				exit(2, err)
			}
			records, err := config.records(ctx, config.logger)
			if err != nil {
				exit(3, fmt.Errorf("reading testing set: %v", err))
			}
			config.Logf("Testing tree against testset with %d records...", len(records))
			successRate, unclassified, err := testTree(ctx, t, records, config.workers)
			if err != nil {
				exit(4, fmt.Errorf("testing tree: %v", err))
			}
			config.Logf("Done")
			fmt.Printf("%f success rate, %d records unclassified\n", successRate, unclassified)
		},
	}
	config.inputConfig.addFlags(cmd, "test the tree against")
	config.storeConfig.addFlags(cmd, "path to a file from which the tree to test will be read and parsed as JSON")
	cmd.PersistentFlags().IntVarP(&(config.workers), "workers", "w", 4, "number of records classified at a time")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if err := tcc.inputConfig.Validate(); err != nil {
		return err
	}
	return tcc.storeConfig.Validate()
}

/*
testTree splits the records into as many chunks as workers and tests the
tree against each of them concurrently, then combines the results as
tree.Test does for all records at once.
*/
func testTree(ctx context.Context, t *tree.Tree, records []feature.Record, workers int) (float64, int, error) {
	if len(records) == 0 {
		return 0.0, 0, nil
	}
	size := (len(records) + workers - 1) / workers
	var chunks [][]feature.Record
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[start:end])
	}
	hits := make([]int, len(chunks))
	unclassified := make([]int, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			h, u, err := t.Count(gctx, chunk)
			if err != nil {
				return err
			}
			hits[i], unclassified[i] = h, u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0.0, 0, err
	}
	var totalHits, totalUnclassified int
	for i := range chunks {
		totalHits += hits[i]
		totalUnclassified += unclassified[i]
	}
	return float64(totalHits) / float64(len(records)), totalUnclassified, nil
}
