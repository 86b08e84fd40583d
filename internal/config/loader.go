package config

import (
	"os"
	"path/filepath"
)

// ConfigPathEnvVar overrides config discovery when set
const ConfigPathEnvVar = "SITEMAPINC_CONFIG_PATH"

var defaultConfigFilenames = []string{"config.yaml", "config.yml", "config.json"}

// GetConfigPath resolves the configuration file path. Resolution order:
// explicit flag value, SITEMAPINC_CONFIG_PATH env var, a config file in the
// working directory, a config file next to the executable. Returns an empty
// string when no config file exists; callers then run on defaults.
func GetConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}

	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		return envPath
	}

	for _, name := range defaultConfigFilenames {
		if fileExists(name) {
			return name
		}
	}

	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		for _, name := range defaultConfigFilenames {
			candidate := filepath.Join(exeDir, name)
			if fileExists(candidate) {
				return candidate
			}
		}
	}

	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
