package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvVar names the environment variable holding an explicit config path
const EnvVar = "KARAFURU_CONFIG"

var configFilenames = []string{
	"karafuru.toml",
	"karafuru.yaml",
	"karafuru.yml",
	"karafuru.json",
}

// Find returns the config file to use and where it was found ("flag",
// "env" or "xdg"). An explicit path from the -config flag takes precedence
// over one from the environment, which must exist. Otherwise the karafuru
// directory under xdgHome (or home/.config) is searched. An empty path with
// a nil error means there is no config file.
func Find(explicitPath, envPath, xdgHome, home string) (string, string, error) {
	for _, x := range []struct{ path, source string }{{explicitPath, "flag"}, {envPath, "env"}} {
		candidate := strings.TrimSpace(x.path)
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			return "", "", err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", "", err
		}
		if info.IsDir() {
			return "", "", fmt.Errorf("config %q points to a directory", abs)
		}
		return abs, x.source, nil
	}

	xdgRoot := strings.TrimSpace(xdgHome)
	if xdgRoot == "" {
		homeDir := strings.TrimSpace(home)
		if homeDir == "" {
			if h, err := os.UserHomeDir(); err == nil {
				homeDir = h
			}
		}
		if homeDir != "" {
			xdgRoot = filepath.Join(homeDir, ".config")
		}
	}
	if xdgRoot != "" {
		for _, name := range configFilenames {
			candidate := filepath.Join(xdgRoot, "karafuru", name)
			if fileExists(candidate) {
				return candidate, "xdg", nil
			}
		}
	}
	return "", "", nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
