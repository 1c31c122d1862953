package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/roomtag"
	"github.com/aretw0/roomtag/internal/config"
	"github.com/aretw0/roomtag/pkg/core"
)

var (
	verbose    bool
	configFile string
	adapter    string
	format     string
	saveDir    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "roomtag",
	Short: "Custom names, colors and notes for the rooms and zones of a colony map",
	Long: `roomtag keeps user labels attached to rooms and zones while the world
rebuilds rooms from scratch, moves furniture between maps and loses indexes.
Labels are recovered from the objects inside a room when the index forgets them.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Settings file (default <dir>/roomtag.yaml)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", roomtag.AdapterFS, "Save backend: fs or badger")
	rootCmd.PersistentFlags().StringVar(&format, "format", "yaml", "Save format of the fs backend: yaml or json")
	rootCmd.PersistentFlags().StringVar(&saveDir, "dir", "", "Save directory (default: nearest directory holding saves, else the working directory)")
}

// resolveDir returns the save directory: the flag, the nearest marked ancestor of the
// working directory, or the working directory itself.
func resolveDir() string {
	if saveDir != "" {
		return saveDir
	}
	cwd, err := os.Getwd()
	if err != nil {
		fatal("Failed to get CWD", err)
	}
	if root, err := roomtag.FindRoot(cwd); err == nil {
		return root
	}
	return cwd
}

func settingsPath(dir string) string {
	if configFile != "" {
		return configFile
	}
	return filepath.Join(dir, roomtag.ConfigFile)
}

// storeURI maps the save directory to the location the backend writes to.
func storeURI(dir string) string {
	if adapter == roomtag.AdapterBadger {
		return filepath.Join(dir, ".roomtag", "badger")
	}
	return dir
}

func loadSettings(dir string) core.Settings {
	s, err := config.Load(settingsPath(dir))
	if err != nil {
		fatal("Failed to load settings", err)
	}
	return s
}

// openService builds the service on the resolved save directory.
func openService(extra ...roomtag.Option) (*roomtag.Service, string) {
	dir := resolveDir()
	opts := []roomtag.Option{
		roomtag.WithAdapter(adapter),
		roomtag.WithFormat(format),
		roomtag.WithLogger(slog.Default()),
		roomtag.WithSettings(loadSettings(dir)),
	}
	svc, err := roomtag.New(storeURI(dir), append(opts, extra...)...)
	if err != nil {
		fatal("Failed to open saves", err)
	}
	return svc, dir
}
