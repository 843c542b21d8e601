package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pbanos/c45/feature"
	"github.com/pbanos/c45/feature/inputsample"
	"github.com/pbanos/c45/feature/json"
	"github.com/pbanos/c45/feature/yaml"
	"github.com/pbanos/c45/tree"
	"github.com/spf13/cobra"
)

type classifyCmdConfig struct {
	*rootCmdConfig
	storeConfig
	recordsInput   string
	undefinedValue string
}

func classifyCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &classifyCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify records with a tree",
		Long:  `Use a tree to classify the records in a YAML file, or a record whose values are asked for interactively, reduced to the attributes on its path`,
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
			if config.recordsInput == "" {
				err = classifyInteractively(ctx, t, config.undefinedValue)
			} else {
				err = config.classifyRecords(ctx, t)
			}
			if err != nil {
				exit(3, err)
			}
		},
	}
	config.storeConfig.addFlags(cmd, "path to a file from which the tree will be read and parsed as JSON")
	cmd.PersistentFlags().StringVarP(&(config.recordsInput), "records", "r", "", "path to a YAML or JSON (.json) file with the records to classify under a records key (defaults to asking for values on STDIN)")
	cmd.PersistentFlags().StringVarP(&(config.undefinedValue), "undefined-value", "u", "?", "value to input to define a record's value for an attribute as undefined")
	return cmd
}

func (ccc *classifyCmdConfig) classifyRecords(ctx context.Context, t *tree.Tree) error {
	var records []feature.Record
	var err error
	if strings.HasSuffix(ccc.recordsInput, ".json") {
		records, err = json.ReadRecordsFromFile(ccc.recordsInput)
	} else {
		records, err = yaml.ReadRecordsFromFile(ccc.recordsInput)
	}
	if err != nil {
		return err
	}
	ccc.Logf("Classifying %d records...", len(records))
	for _, r := range records {
		class, err := t.Classify(ctx, r)
		if err != nil {
			return fmt.Errorf("classifying %v: %v", r, err)
		}
		fmt.Printf("%v: %s\n", r, class)
	}
	return nil
}

func classifyInteractively(ctx context.Context, t *tree.Tree, undefinedValue string) error {
	known, err := knownValues(ctx, t)
	if err != nil {
		return err
	}
	s := inputsample.New(os.Stdin, known, inputsample.NewWriterRequester(os.Stdout, undefinedValue), undefinedValue)
	class, err := t.Classify(ctx, s)
	if err != nil {
		return err
	}
	fmt.Printf("Predicted %s is %s\n", t.Target, class)
	return nil
}

// knownValues returns the branch values of every split attribute of the tree.
func knownValues(ctx context.Context, t *tree.Tree) (map[string][]string, error) {
	result := make(map[string][]string)
	seen := make(map[string]map[string]bool)
	err := t.Traverse(ctx, false, func(_ context.Context, n tree.Node) error {
		in, ok := n.(*tree.Internal)
		if !ok {
			return nil
		}
		if seen[in.Attribute] == nil {
			seen[in.Attribute] = make(map[string]bool)
		}
		for _, v := range in.Values {
			if !seen[in.Attribute][v] {
				seen[in.Attribute][v] = true
				result[in.Attribute] = append(result[in.Attribute], v)
			}
		}
		return nil
	})
	return result, err
}
