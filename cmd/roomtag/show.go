package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/roomtag"
	"github.com/aretw0/roomtag/pkg/core"
)

var (
	showJSON bool
	showView []int
)

var showCmd = &cobra.Command{
	Use:   "show <map>",
	Short: "Print the labels a frame of the map would draw",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, _ := openService(roomtag.WithReadOnly(true))
		defer svc.Close()

		// A one-shot frame has no loading hitch to hide.
		settings := svc.Settings()
		settings.LoadGrace = 0
		if err := svc.SetSettings(settings); err != nil {
			fatal("Invalid settings", err)
		}

		var view *core.CellRect
		if cmd.Flags().Changed("view") {
			if len(showView) != 4 {
				fatal("Invalid view", fmt.Errorf("want x0,z0,x1,z1"))
			}
			view = &core.CellRect{
				Min: core.Cell{X: showView[0], Z: showView[1]},
				Max: core.Cell{X: showView[2], Z: showView[3]},
			}
		}

		labels, err := svc.Frame(context.Background(), args[0], view)
		if err != nil {
			fatal("Failed to render", err)
		}

		if showJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(labels); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}
		for _, l := range labels {
			fmt.Printf("%-12s %-24q at (%5.2f, %5.2f) size=%d alpha=%.2f icon=%s\n",
				l.Key, l.Text, l.X, l.Z, l.FontSize, l.Color.A, l.Icon)
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
	showCmd.Flags().IntSliceVar(&showView, "view", nil, "Visible area as x0,z0,x1,z1")
}
