package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reflectivity/orsogo/domain/header"
)

var (
	version = "dev"
	commit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("orso %s (commit: %s, format: %s)\n", version, commit, header.FormatVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
