package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Paintersrp/mixsearch/internal/constants"
)

func GetConfigPath(homeDir string) string {
	return filepath.Join(
		homeDir,
		constants.ConfigDir,
		constants.ConfigFile+"."+constants.ConfigFileType,
	)
}

// EnsureConfigExists creates an empty config file if needed and checks the
// values the remote lookup depends on.
func EnsureConfigExists(homeDir string) error {
	configPath := GetConfigPath(homeDir)
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		file, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		file.Close()
	} else if err != nil {
		return fmt.Errorf("failed to check config file existence: %w", err)
	}

	cfg, err := Load(homeDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	return cfg.RequireAPI()
}

// RequireAPI reports a ConfigInitError when the remote credentials are
// missing.
func (cfg *Config) RequireAPI() error {
	required := []struct {
		name  string
		value string
	}{
		{"api.user_id", cfg.API.UserID},
		{"api.session_id", cfg.API.SessionID},
		{"api.session_secret", cfg.API.SessionSecret},
	}

	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ConfigInitError{
				msg: fmt.Sprintf("required config variable %q is not set", r.name),
			}
		}
	}
	return nil
}
