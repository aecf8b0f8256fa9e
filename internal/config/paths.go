// Package config loads permission rule levels from settings files and
// runtime settings from the environment.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths contains the standard paths for agentgate data.
type Paths struct {
	Data   string // ~/.local/share/agentgate
	Config string // ~/.config/agentgate
	State  string // ~/.local/state/agentgate
}

// GetPaths returns the standard paths for agentgate data.
func GetPaths() *Paths {
	return &Paths{
		Data:   filepath.Join(getEnvOrDefault("XDG_DATA_HOME", defaultDataHome()), "agentgate"),
		Config: filepath.Join(getEnvOrDefault("XDG_CONFIG_HOME", defaultConfigHome()), "agentgate"),
		State:  filepath.Join(getEnvOrDefault("XDG_STATE_HOME", defaultStateHome()), "agentgate"),
	}
}

// EnsurePaths creates all required directories.
func (p *Paths) EnsurePaths() error {
	for _, dir := range []string{p.Data, p.Config, p.State} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// UserSettingsDir returns the directory holding user-level settings.
func UserSettingsDir() string {
	return GetPaths().Config
}

// ProjectSettingsDir returns the directory holding project-level settings.
func ProjectSettingsDir(directory string) string {
	return filepath.Join(directory, ".agentgate")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultDataHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share")
}

func defaultConfigHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".config")
}

func defaultStateHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "state")
}
