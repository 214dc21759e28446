// Package config loads BigBite settings from defaults, an optional TOML
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DefaultAPIURL is the local development backend.
const DefaultAPIURL = "http://localhost:5000"

// Config holds application configuration.
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Speech SpeechConfig `mapstructure:"speech"`
	Log    LogConfig    `mapstructure:"log"`
}

// APIConfig holds the detection/generation backend settings.
type APIConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// SpeechConfig holds text-to-speech settings. Narration is only available
// when both Key and Region are set.
type SpeechConfig struct {
	Key       string `mapstructure:"key"`
	Region    string `mapstructure:"region"`
	Voice     string `mapstructure:"voice"`
	CacheDir  string `mapstructure:"cache_dir"`
	DiskCache bool   `mapstructure:"disk_cache"`
}

// LogConfig holds log output settings.
type LogConfig struct {
	File string `mapstructure:"file" validate:"required"`
}

// SpeechEnabled reports whether TTS credentials are present.
func (c Config) SpeechEnabled() bool {
	return c.Speech.Key != "" && c.Speech.Region != ""
}

// Load reads configuration from file and env. Env var overrides use prefix
// BIGBITE_; the API URL also honours VITE_API_URL and the speech credentials
// AZURE_SPEECH_KEY / AZURE_SPEECH_REGION.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("api.url", DefaultAPIURL)
	v.SetDefault("speech.voice", "en-US-AvaNeural")
	v.SetDefault("speech.cache_dir", ".bigbite-cache")
	v.SetDefault("speech.disk_cache", true)
	v.SetDefault("log.file", filepath.Join(".bigbite-logs", "bigbite.log"))

	v.SetConfigType("toml")
	if path := os.Getenv("BIGBITE_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "bigbite"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("BIGBITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api.url", "BIGBITE_API_URL", "VITE_API_URL"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}
	if err := v.BindEnv("speech.key", "BIGBITE_SPEECH_KEY", "AZURE_SPEECH_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}
	if err := v.BindEnv("speech.region", "BIGBITE_SPEECH_REGION", "AZURE_SPEECH_REGION"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing default file is fine.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.API.URL = strings.TrimRight(strings.TrimSpace(c.API.URL), "/")

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: %s fails %q check (value %q)", strings.ToLower(fe.Namespace()), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
