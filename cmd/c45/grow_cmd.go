package main

import (
	"fmt"

	"github.com/pbanos/c45"
	"github.com/pbanos/c45/dataset"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type growCmdConfig struct {
	*rootCmdConfig
	inputConfig
	storeConfig
	target    string
	criterion string
	criteria  string
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long:  `Grow a decision tree from a set of data to predict the value of a target attribute.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				exit(1, err)
			}
			ctx := config.Context()
			defer config.ContextCancelFunc()()
			criterion, err := c45.ParseCriterion(config.criterion)
			if err != nil {
				exit(1, err)
			}
			criteria, err := parseCriteria(config.criteria)
			if err != nil {
				exit(1, err)
			}
			ds, release, err := config.dataSource(ctx, config.logger)
			if err != nil {
				exit(2, fmt.Errorf("opening training set: %v", err))
			}
			defer release()
			reg := prometheus.NewRegistry()
			b, err := c45.New(c45.Config{
				Target:    config.target,
				Criterion: criterion,
				Dataset:   dataset.Instrument(ds, dataset.NewMetrics(reg)),
				Logger:    config.logger,
				Metrics:   c45.NewMetrics(reg),
			})
			if err != nil {
				exit(3, err)
			}
			config.Logf("Growing tree to predict %s with %v...", config.target, criterion)
			t, err := b.Build(ctx, criteria)
			if err != nil {
				exit(4, fmt.Errorf("growing the tree: %v", err))
			}
			config.Logf("Done")
			config.logMetrics(reg)
			if config.verbose {
				config.Logf("Tree %s:\n%v", t.ID, t)
			}
			err = config.saveTree(ctx, config.logger, t)
			if err != nil {
				exit(5, err)
			}
		},
	}
	config.inputConfig.addFlags(cmd, "grow the tree from")
	config.storeConfig.addFlags(cmd, "path to a file to which the generated tree will be written in JSON format (defaults to STDOUT)")
	cmd.PersistentFlags().StringVar(&(config.target), "target", "", "name of the attribute the generated tree should predict (required)")
	cmd.PersistentFlags().StringVarP(&(config.criterion), "criterion", "c", "gain-ratio", "score used to select split attributes: information-gain or gain-ratio")
	cmd.PersistentFlags().StringVar(&(config.criteria), "criteria", "", "comma-separated attribute=value constraints on the records to grow the tree from")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.target == "" {
		return fmt.Errorf("required target flag was not set")
	}
	if err := gcc.inputConfig.Validate(); err != nil {
		return err
	}
	return gcc.storeConfig.Validate()
}
