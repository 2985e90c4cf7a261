// Package config provides configuration management for blender-launch.
//
// Configuration is read from config.yaml under the tool's config
// directory ($XDG_CONFIG_HOME/blender-launch or ~/.config/blender-launch),
// with BLENDER_LAUNCH_* environment variables taking precedence. A
// missing config file is not an error; defaults apply.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// AppName is the directory name used under the user config dir.
const AppName = "blender-launch"

type Config struct {
	// MinimumVersion is the support floor for discovered versions.
	MinimumVersion string `mapstructure:"minimum_version"`
	// EngineName identifies the engine to the bootstrap.
	EngineName string `mapstructure:"engine_name"`
	// ExtraTemplates are searched after the built-in platform
	// templates, in declaration order.
	ExtraTemplates []string `mapstructure:"extra_templates"`
	// ExtraArgs are attached to every discovered version, in addition
	// to any SGTK_BLENDER_CMD_EXTRA_ARGS value.
	ExtraArgs []string `mapstructure:"extra_args"`
}

// Dir returns the tool's config directory, honoring XDG_CONFIG_HOME.
func Dir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, AppName), nil
}

// Load reads the configuration, applying defaults for anything the
// config file and environment leave unset.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return loadFrom(dir)
}

func loadFrom(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("minimum_version", "2.8")
	v.SetDefault("engine_name", "tk-blender")
	v.SetDefault("extra_templates", []string{})
	v.SetDefault("extra_args", []string{})

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("BLENDER_LAUNCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
