// Package config loads typed configuration structs from the process
// environment, optionally seeded from a .env file. The file path comes
// from the -env flag, falling back to ./.env when present.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

var (
	envFlag  string
	flagOnce sync.Once
)

// MustNew is New but panics on failure. Intended for wiring in main,
// where a bad configuration should stop the process immediately.
func MustNew[T any](prefix string) *T {
	conf, err := New[T](prefix)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return conf
}

// New populates a T from environment variables carrying the given
// prefix, seeding the environment from a .env file first when one is
// configured or sitting in the working directory.
func New[T any](prefix string) (*T, error) {
	if err := seedEnvironment(); err != nil {
		return nil, err
	}

	var conf T
	if err := envconfig.Process(prefix, &conf); err != nil {
		return nil, fmt.Errorf("process env prefix %q: %w", prefix, err)
	}
	return &conf, nil
}

func seedEnvironment() error {
	if path := envFileFromFlag(); path != "" {
		if err := exportEnvFile(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
		return nil
	}

	// No explicit file; a local .env is picked up when it exists.
	info, err := os.Stat(".env")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if err := exportEnvFile(".env"); err != nil {
		return fmt.Errorf("load default env file: %w", err)
	}
	return nil
}

func envFileFromFlag() string {
	flagOnce.Do(func() {
		if flag.Lookup("env") == nil {
			flag.StringVar(&envFlag, "env", "", "path to .env file")
		}
		if !flag.Parsed() {
			flag.Parse()
		}
	})
	return strings.TrimSpace(envFlag)
}

// exportEnvFile copies every key of the file into the process
// environment, uppercased, so envconfig can see them.
func exportEnvFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	for key, val := range v.AllSettings() {
		if err := os.Setenv(strings.ToUpper(key), fmt.Sprint(val)); err != nil {
			return err
		}
	}
	return nil
}
