package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GetHome returns the findreplace home directory
// Priority order:
//  1. FINDREPLACE_HOME environment variable (if set)
//  2. ~/.findreplace
//
// The directory is not created; a missing home simply means default settings.
func GetHome() (string, error) {
	if home := os.Getenv("FINDREPLACE_HOME"); home != "" {
		return home, nil
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get user home directory: %w", err)
	}

	return filepath.Join(userHome, ".findreplace"), nil
}

// DefaultConfigPath returns $FINDREPLACE_HOME/config.yaml
func DefaultConfigPath() (string, error) {
	home, err := GetHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "config.yaml"), nil
}

// ExpandHome replaces a leading "~" with the current user's home directory.
// Paths that do not start with "~" are returned unchanged.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(userHome, strings.TrimPrefix(path, "~"))
}
