package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type showCmdConfig struct {
	*rootCmdConfig
	storeConfig
}

func showCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &showCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a tree",
		Long:  `Print a tree as text, one line per branch`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				exit(1, err)
			}
			t, err := config.loadTree(config.Context(), config.logger)
			if err != nil {
				exit(2, err)
			}
			fmt.Print(t)
		},
	}
	config.storeConfig.addFlags(cmd, "path to a file from which the tree to show will be read and parsed as JSON")
	return cmd
}
