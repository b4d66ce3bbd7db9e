// Config loading for the materialdb CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDataDir  = "data_dir"
	cfgKeyDatabase = "database"
	cfgKeyListen   = "listen"

	defaultDatabase = "material.db"
	defaultListen   = "127.0.0.1:8000"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# materialdb CLI configuration

# Data directory holding the database file (default: the config directory)
# data_dir:

# Database file name within the data directory
database: material.db

# Listen address for the serve command
listen: 127.0.0.1:8000
`

// loadConfig reads config.yaml from the config directory, creating the
// directory and a default config.yaml on first run. A missing config.yaml is
// not an error.
func loadConfig(dir string) (*viper.Viper, error) {
	dir, err := resolveConfigDir(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(dir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyDataDir, dir)
	v.SetDefault(cfgKeyDatabase, defaultDatabase)
	v.SetDefault(cfgKeyListen, defaultListen)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// resolveConfigDir expands an empty flag value to ~/.materialdb.
func resolveConfigDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".materialdb"), nil
}

func ensureDefaultConfigFile(dir string) error {
	path := filepath.Join(dir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

func databasePath(cfg *viper.Viper) string {
	return filepath.Join(cfg.GetString(cfgKeyDataDir), cfg.GetString(cfgKeyDatabase))
}
