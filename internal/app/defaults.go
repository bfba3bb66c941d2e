package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables that relocate the files scs finds before it has
// read a config file.
const (
	EnvConfigPath = "SCS_CONFIG_PATH"
	EnvHome       = "SCS_HOME"
)

// Paths locates the config file and the directory `scs config init` builds
// the rest of the layout under (log/, DATA/, cache/, keys/, exports/).
type Paths struct {
	ConfigPath string // $SCS_CONFIG_PATH, else ~/.config/scs.toml
	BaseDir    string // $SCS_HOME, else ~/.local/share/scs
}

// DefaultPaths resolves Paths. The home directory is consulted only for
// variables that are unset.
func DefaultPaths() (Paths, error) {
	configPath, err := envOrHome(EnvConfigPath, ".config", "scs.toml")
	if err != nil {
		return Paths{}, err
	}
	baseDir, err := envOrHome(EnvHome, ".local", "share", "scs")
	if err != nil {
		return Paths{}, err
	}
	return Paths{ConfigPath: configPath, BaseDir: baseDir}, nil
}

func envOrHome(env string, rel ...string) (string, error) {
	if v := os.Getenv(env); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%s is unset and the home directory is unknown: %w", env, err)
	}
	return filepath.Join(append([]string{home}, rel...)...), nil
}
