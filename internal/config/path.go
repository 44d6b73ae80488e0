// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// ExpandDate substitutes the {date} placeholder in a source path template.
// Templates without a placeholder are returned unchanged, so a single static
// file can serve every date.
func ExpandDate(template string, date time.Time) string {
	return strings.ReplaceAll(template, "{date}", date.Format("2006-01-02"))
}

// DefaultDatabasePath returns the default location of the run-history
// database, ~/.local/share/fleetrec/fleetrec.db.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "fleetrec.db"
	}
	return filepath.Join(home, ".local", "share", "fleetrec", "fleetrec.db")
}
