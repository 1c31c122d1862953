package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/roomtag"
)

var (
	listJSON  bool
	listMatch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved maps",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, _ := openService(roomtag.WithReadOnly(true))
		defer svc.Close()

		sums, err := svc.Summaries(context.Background(), listMatch)
		if err != nil {
			fatal("Failed to list saves", err)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(sums); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		for _, s := range sums {
			fmt.Printf("%s %dx%d things=%d zones=%d labels=%d/%d anchored=%d\n",
				s.ID, s.Width, s.Height, s.Things, s.Zones, s.ZoneLabels, s.RoomLabels, s.Anchored)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listMatch, "match", "", "Only list maps whose id matches the glob")
}
