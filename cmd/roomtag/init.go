package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/roomtag/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [map]",
	Short: "Create a demo colony save",
	Long: `Create a demo colony with a bedroom, a dining room and two zones, and write the
default settings file next to the saves if there is none.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := "colony"
		if len(args) == 1 {
			id = args[0]
		}

		svc, dir := openService()
		defer svc.Close()

		m, err := svc.Seed(context.Background(), id)
		if err != nil {
			fatal("Failed to create demo colony", err)
		}

		path := settingsPath(dir)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if err := config.Save(path, svc.Settings()); err != nil {
				fatal("Failed to write settings", err)
			}
			fmt.Println("Wrote default settings to", path)
		}

		w, h := m.Size()
		fmt.Printf("Created demo colony '%s' (%dx%d) in %s\n", m.ID(), w, h, dir)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
