package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// ConfigFile is the settings file looked up next to the saves.
const ConfigFile = "roomtag.yaml"

// FindRoot looks upwards from startDir for a save directory marker: the fs adapter's
// system directory or a settings file. It returns the absolute path of the first
// directory holding one.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ".roomtag") || hasFile(dir, ConfigFile) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", errors.New("root not found")
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
