package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/roomtag/internal/config"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Show or hide room and zone labels together",
	Long: `Flip label visibility in the settings file. When room and zone labels disagree,
both are turned on. A running 'roomtag run' picks the change up.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		dir := resolveDir()
		settings := loadSettings(dir)
		on := settings.ToggleVisibility()
		if err := config.Save(settingsPath(dir), settings); err != nil {
			fatal("Failed to write settings", err)
		}
		state := "hidden"
		if on {
			state = "shown"
		}
		fmt.Printf("Labels %s\n", state)
	},
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}
