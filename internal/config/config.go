// Package config provides Viper-based configuration loading for the extractor.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DefaultUploadDescription is the file description attached to every image
// uploaded to the wiki.
const DefaultUploadDescription = "An official game image extracted with AssetRipper and uploaded by a script."

// ExtractConfig holds asset extraction settings.
type ExtractConfig struct {
	// Workers is the number of asset files parsed concurrently.
	Workers int `mapstructure:"workers"`
}

// ImagesConfig holds image copy settings.
type ImagesConfig struct {
	// Workers is the number of image lookups and copies run concurrently.
	Workers int `mapstructure:"workers"`
	// Skip disables copying images after the JSON file is written.
	Skip bool `mapstructure:"skip"`
}

// WikiConfig holds the settings for driving Pywikibot.
type WikiConfig struct {
	// Python is the interpreter used to run pwb.py.
	Python string `mapstructure:"python"`
	// PywikibotDir is the Pywikibot checkout; commands run with it as working directory.
	PywikibotDir string `mapstructure:"pywikibot_dir"`
	// ScriptsDir holds file_exists.py, download_file.py and create_equipment_pages.py.
	ScriptsDir string `mapstructure:"scripts_dir"`
	// Description is attached to uploaded files.
	Description string `mapstructure:"description"`
	// TempDir is where download_file.py saves files. Empty means the OS temp directory.
	TempDir string `mapstructure:"temp_dir"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json", "console" or "auto".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	// ExtractedFilesPath is the AssetRipper output root for the game build.
	ExtractedFilesPath string        `mapstructure:"extracted_files_path"`
	DataDir            string        `mapstructure:"data_dir"`
	Extract            ExtractConfig `mapstructure:"extract"`
	Images             ImagesConfig  `mapstructure:"images"`
	Wiki               WikiConfig    `mapstructure:"wiki"`
	Logging            LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants that do not depend on the
// command being run. ExtractedFilesPath is checked by RequireExtractedFiles.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, "data_dir must not be empty")
	}
	if c.Extract.Workers < 1 {
		errs = append(errs, fmt.Sprintf("extract.workers must be >= 1, got %d", c.Extract.Workers))
	}
	if c.Images.Workers < 1 {
		errs = append(errs, fmt.Sprintf("images.workers must be >= 1, got %d", c.Images.Workers))
	}
	if err := validateWiki(c.Wiki); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// RequireExtractedFiles checks that an extracted-files root was configured.
// There is no built-in default: the path depends on where the game was
// extracted on each machine.
func (c Config) RequireExtractedFiles() error {
	if strings.TrimSpace(c.ExtractedFilesPath) == "" {
		return errors.New("extracted_files_path must be set (argument, config file or DWDATA_EXTRACTED_FILES_PATH)")
	}
	return nil
}

func validateWiki(w WikiConfig) error {
	var errs []string
	if strings.TrimSpace(w.Python) == "" {
		errs = append(errs, "wiki.python must not be empty")
	}
	if strings.TrimSpace(w.PywikibotDir) == "" {
		errs = append(errs, "wiki.pywikibot_dir must not be empty")
	}
	if strings.TrimSpace(w.Description) == "" {
		errs = append(errs, "wiki.description must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true, "auto": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console, auto], got %q", l.Format)
	}
	return nil
}

// New returns a Viper instance with defaults and DWDATA_ environment
// overrides applied. When path is non-empty the file is read as well.
//
// Postcondition: Returns a configured Viper or a non-nil error if the file
// could not be read.
func New(path string) (*viper.Viper, error) {
	v := viper.New()

	// Environment variable overrides with DWDATA_ prefix
	v.SetEnvPrefix("DWDATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return v, nil
}

// Load reads configuration from the given file path (optional), applies
// environment variable overrides, then overrides (keyed like "logging.level",
// typically from command-line flags), and validates the result.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string, overrides map[string]any) (Config, error) {
	v, err := New(path)
	if err != nil {
		return Config{}, err
	}
	for key, value := range overrides {
		v.Set(key, value)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Registered so AutomaticEnv picks up DWDATA_EXTRACTED_FILES_PATH during Unmarshal.
	v.SetDefault("extracted_files_path", "")
	v.SetDefault("data_dir", "data")

	v.SetDefault("extract.workers", 4)

	v.SetDefault("images.workers", 8)
	v.SetDefault("images.skip", false)

	v.SetDefault("wiki.python", "python")
	v.SetDefault("wiki.pywikibot_dir", "../pywikibot")
	v.SetDefault("wiki.scripts_dir", "scripts/python")
	v.SetDefault("wiki.description", DefaultUploadDescription)
	v.SetDefault("wiki.temp_dir", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "auto")
}
