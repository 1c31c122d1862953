package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/roomtag"
)

var inspectText string

var inspectCmd = &cobra.Command{
	Use:   "inspect <map> <x> <z>",
	Short: "Show the label at a cell and how it rewrites location text",
	Long: `Show the record of the zone or room at a cell without creating one, and the
text a host would display for it. For rooms, --text is rewritten with the custom name
and description.`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		cell, err := parseCellArgs(args[1], args[2])
		if err != nil {
			fatal("Invalid cell", err)
		}

		svc, _ := openService(roomtag.WithReadOnly(true))
		defer svc.Close()

		in, err := svc.Inspect(context.Background(), args[0], cell, inspectText)
		if err != nil {
			fatal("Failed to inspect", err)
		}

		fmt.Printf("%s: %s\n", in.Kind, in.Title)
		if in.Record == nil {
			fmt.Println("  (no label)")
		} else {
			fmt.Printf("  name:        %q\n", in.Record.CustomName)
			fmt.Printf("  description: %q\n", in.Record.CustomDescription)
		}
		fmt.Println()
		fmt.Println(in.Text)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectText, "text", "", "Location text to rewrite (default \"In the <role>.\")")
}
