package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/roomtag/pkg/core"
)

var (
	relocateDX int
	relocateDZ int
)

var relocateCmd = &cobra.Command{
	Use:   "relocate <src> <dst> <x0> <z0> <x1> <z1>",
	Short: "Move the things in an area to another map",
	Long: `Move every thing inside the area from one map to another, shifted by --dx/--dz.
The destination map is created when it does not exist. Room labels travel with the
furniture and are recovered on the destination.`,
	Args: cobra.ExactArgs(6),
	Run: func(cmd *cobra.Command, args []string) {
		bounds, err := parseInts(args[2:])
		if err != nil {
			fatal("Invalid area", err)
		}
		area := core.CellRect{
			Min: core.Cell{X: bounds[0], Z: bounds[1]},
			Max: core.Cell{X: bounds[2], Z: bounds[3]},
		}

		svc, _ := openService()
		defer svc.Close()

		n, err := svc.Relocate(context.Background(), args[0], args[1], area, core.Cell{X: relocateDX, Z: relocateDZ})
		if err != nil {
			fatal("Failed to relocate", err)
		}
		fmt.Printf("Moved %d things from %s to %s\n", n, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(relocateCmd)
	relocateCmd.Flags().IntVar(&relocateDX, "dx", 0, "Shift along X on the destination")
	relocateCmd.Flags().IntVar(&relocateDZ, "dz", 0, "Shift along Z on the destination")
}
