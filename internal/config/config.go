// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// DatabaseConfig holds the local registry database settings.
type DatabaseConfig struct {
	Type string `mapstructure:"type" yaml:"type"`
	Dsn  string `mapstructure:"dsn" yaml:"dsn"`
}

// RPCConfig holds the default chain endpoint settings. The --rpc-url flag
// overrides it per invocation.
type RPCConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// ChainConfig holds chain-specific constants that differ between Tangle
// deployments (testnet vs mainnet).
type ChainConfig struct {
	SS58Prefix          uint16 `mapstructure:"ss58_prefix" yaml:"ss58_prefix"`
	ServicesPalletIndex uint8  `mapstructure:"services_pallet_index" yaml:"services_pallet_index"`
	CreateCallIndex     uint8  `mapstructure:"create_call_index" yaml:"create_call_index"`
}

// Config is the root configuration for the gadget CLI.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	RPC      RPCConfig      `mapstructure:"rpc" yaml:"rpc"`
	Chain    ChainConfig    `mapstructure:"chain" yaml:"chain"`
	Language string         `mapstructure:"language" yaml:"language"`
}

// getConfigPath returns the full path for the configuration file.
func getConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		// System-wide configuration paths
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Gadget")
		default: // Linux, macOS, etc.
			configDir = "/etc/gadget"
		}
	} else {
		// User-specific configuration paths
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "gadget")
	}

	return filepath.Join(configDir, "gadget.yaml"), nil
}

// LoadConfig builds a configuration of type T from defaults, the gadget.yaml
// config file, environment variables (GADGET_ prefix) and the command's
// flags, in increasing order of precedence. When no config file exists, the
// fully merged configuration is returned together with the underlying
// viper.ConfigFileNotFoundError so callers can persist defaults on first
// run.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, additionalConfigFilePath *string) (T, error) {
	var c T
	v := viper.New()

	// 1. Set defaults
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 2. Set up file search paths
	v.SetConfigName("gadget")
	v.SetConfigType("yaml")

	// 3. Add explicit config file path if provided via --config flag.
	// This has the highest precedence for file-based configuration.
	if additionalConfigFilePath != nil {
		v.SetConfigFile(*additionalConfigFilePath)
	}

	// 4. Add standard config locations
	if userConfigPath, err := getConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := getConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".") // Look for gadget.yaml in current dir

	// 5. Read in the primary config file. A missing file is carried through
	// to the caller after the remaining sources are merged; other errors
	// are fatal.
	var notFoundErr error
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
		notFoundErr = err
	}

	// 6. Read from environment variables
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("gadget")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 7. Bind the command's flags
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return c, err
	}

	// parse config
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, notFoundErr
}

// WriteConfigFile persists the configuration as YAML to the user (or
// system) config path, creating the directory if needed.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := getConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	err = os.WriteFile(path, data, 0600) // 0600: the file may carry a DSN with credentials
	if err != nil {
		return err
	}

	return nil
}
