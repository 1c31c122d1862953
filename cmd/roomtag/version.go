package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/roomtag"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of roomtag",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("roomtag version %s\n", strings.TrimSpace(roomtag.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
