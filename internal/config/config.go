// Package config loads optional default run settings for the stabsim
// CLI from a config file via viper, so that a project can pin its shot
// count, seed, and worker count once instead of repeating flags.
package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

// RunDefaults holds the subset of stabsim's flags that a config file may
// pre-set. A flag given a non-zero value on the command line wins; a flag
// left at zero (or false) falls back to the file's value.
type RunDefaults struct {
	Shots   int   `mapstructure:"shots"`
	Seed    int64 `mapstructure:"seed"`
	Workers int   `mapstructure:"workers"`
	Verbose bool  `mapstructure:"verbose"`
}

// Load reads path (if non-empty) as a viper config file and returns the
// defaults found in it. A missing path is not an error: it simply
// returns the zero-valued RunDefaults, letting stabsim fall back to its
// built-in defaults.
func Load(path string) (RunDefaults, error) {
	var defaults RunDefaults
	if path == "" {
		return defaults, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return defaults, nil
		}
		return defaults, err
	}
	if err := v.Unmarshal(&defaults); err != nil {
		return defaults, err
	}
	return defaults, nil
}
