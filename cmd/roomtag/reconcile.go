package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile <map>",
	Short: "Re-point room anchors at their records and drop stale entries",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, _ := openService()
		defer svc.Close()

		report, err := svc.Reconcile(context.Background(), args[0])
		if err != nil {
			fatal("Failed to reconcile", err)
		}
		fmt.Printf("tracked=%d synced=%d stale=%d anchors=%d\n",
			report.Tracked, report.Synced, report.Stale, report.Anchors)
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}
