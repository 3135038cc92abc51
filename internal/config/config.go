package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
)

const FileName = "config.json"

// Config holds the defaults the command-line flags fall back to
type Config struct {
	Strategy  string `mapstructure:"strategy"`
	Archive   string `mapstructure:"archive"`
	Delimiter string `mapstructure:"delimiter"`
}

func Default() Config {
	return Config{
		Strategy:  "mcv",
		Delimiter: ",",
	}
}

// Load reads the config file at filePath on top of the defaults. A missing file yields the defaults
func Load(filePath string) (Config, error) {
	config := Default()

	bytes, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	} else if err != nil {
		return Config{}, fmt.Errorf("cannot read %v: %w", filePath, err)
	}

	var configJson map[string]any
	if err := json.Unmarshal(bytes, &configJson); err != nil {
		return Config{}, fmt.Errorf("cannot parse %v: %w", filePath, err)
	}
	if err := mapstructure.Decode(configJson, &config); err != nil {
		return Config{}, fmt.Errorf("cannot decode %v: %w", filePath, err)
	}

	if _, err := config.DelimiterRune(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// LoadBesideExecutable loads the config file found in the executable's directory
func LoadBesideExecutable() (Config, error) {
	execPath, err := os.Executable()
	if err != nil {
		return Config{}, fmt.Errorf("cannot determine executable path: %w", err)
	}
	return Load(path.Join(path.Dir(execPath), FileName))
}

func (config Config) DelimiterRune() (rune, error) {
	if utf8.RuneCountInString(config.Delimiter) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character: \"%v\"", config.Delimiter)
	}
	delim, _ := utf8.DecodeRuneInString(config.Delimiter)
	return delim, nil
}
