package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/ralt/mvnlock/internal/models"
	"github.com/ralt/mvnlock/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Environment variable prefix for mvnlock configuration.
const envPrefix = "MVNLOCK"

// loadConfig layers flags over MVNLOCK_* environment variables over the
// optional config file over flag defaults.
func loadConfig(cmd *cobra.Command) (*models.LockConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, &models.LockError{
				Type: models.ErrInvalidConfig,
				Path: configFile,
				Err:  fmt.Errorf("reading config file: %w", err),
			}
		}
	}

	var cfg models.LockConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &models.LockError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("unmarshaling config: %w", err),
		}
	}

	return &cfg, nil
}

func validateConfig(config *models.LockConfig) error {
	if config.ProjectFile == "" {
		return &models.LockError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("project-file is required"),
		}
	}

	if config.CacheDir == "" {
		return &models.LockError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("cache-dir is required"),
		}
	}

	if info, err := os.Stat(config.CacheDir); err != nil || !info.IsDir() {
		return &models.LockError{
			Type: models.ErrInvalidConfig,
			Path: config.CacheDir,
			Err:  fmt.Errorf("cache-dir is not a directory"),
		}
	}

	if config.Output == "" {
		return &models.LockError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("output is required"),
		}
	}

	// Default the project root to the working directory
	if config.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return &models.LockError{Type: models.ErrInvalidConfig, Err: err}
		}
		config.ProjectRoot = wd
	}

	if !config.NoAdd {
		switch config.Store {
		case store.KindNix:
		case store.KindDir:
			if config.StoreDir == "" {
				return &models.LockError{
					Type: models.ErrInvalidConfig,
					Err:  fmt.Errorf("store-dir is required with store %q", store.KindDir),
				}
			}
		default:
			return &models.LockError{
				Type: models.ErrInvalidConfig,
				Err:  fmt.Errorf("unknown store %q", config.Store),
			}
		}
	}

	if config.Jobs < 1 {
		config.Jobs = 1
	}

	return nil
}
