package configs

import (
	"flag"
	"os"

	"github.com/sketchaa/sketchaa/internal/infrastructure/env"
)

// DetermineConfigPath resolves the config file from the --config
// flag, the SKETCHAA_CONFIG env var, or well-known locations, in that
// order. Returns "" when nothing is found; Load falls back to
// defaults in that case.
func DetermineConfigPath() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = env.GetString("SKETCHAA_CONFIG", "")
	}

	if configPath == "" {
		candidates := []string{
			"./config.yaml",
			"./config.yml",
			"../../config.yaml", // keep for local dev
			"/etc/sketchaa/config.yaml",
			"/app/config.yaml", // common in Docker
		}

		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	return configPath
}
