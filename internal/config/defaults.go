package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultLibraryDir        = "~/library"
	defaultLogDir            = "~/.local/share/arkiv/logs"
	defaultTargetHeight      = 720
	defaultCRF               = 25
	defaultEncoder           = "libx265"
	defaultPreset            = "faster"
	defaultDurationTolerance = 6.0
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
		},
		Transcode: Transcode{
			TargetHeight:             defaultTargetHeight,
			CRF:                      defaultCRF,
			Encoder:                  defaultEncoder,
			Preset:                   defaultPreset,
			RemoveOriginal:           true,
			DurationToleranceSeconds: defaultDurationTolerance,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultHistoryPath() string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "arkiv", "history.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.local/state/arkiv/history.db"
	}
	return filepath.Join(home, ".local", "state", "arkiv", "history.db")
}
