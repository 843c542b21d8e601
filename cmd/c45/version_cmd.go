package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	// VersionMajor is the major number in c45's version
	VersionMajor = 0
	// VersionMinor is the minor number in c45's version
	VersionMinor = 1
	// VersionPatch is the patch number in c45's version
	VersionPatch = 0
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of c45",
		Long:  `All software has versions. This is c45's`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("c45 v%d.%d.%d\n", VersionMajor, VersionMinor, VersionPatch)
		},
	}
}
