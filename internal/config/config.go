// Package config loads runtime configuration from defaults, an optional
// config file, a .env file, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration.
type Config struct {
	// RootDir is the directory tree scanned for audio files.
	RootDir string `mapstructure:"root_dir"`
	// Backend selects the transcription backend: gemini or openai.
	Backend string `mapstructure:"backend"`
	// Model overrides the backend's default model when non-empty.
	Model string `mapstructure:"model"`
	// Threshold is the maximum segment duration in seconds.
	Threshold float64 `mapstructure:"threshold"`
	// Workers bounds concurrent segment transcriptions per file.
	Workers int `mapstructure:"workers"`

	GeminiAPIKey  string `mapstructure:"gemini_api_key"`
	GeminiBaseURL string `mapstructure:"gemini_base_url"`
	OpenAIAPIKey  string `mapstructure:"openai_api_key"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	// LogFile, when non-empty, receives a copy of every log line.
	LogFile string `mapstructure:"log_file"`
}

// Load builds the configuration. Precedence, lowest to highest: defaults,
// configFile (optional), environment. A .env file in the working directory
// is loaded into the environment first, when present.
func Load(configFile string) (Config, error) {
	// Missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("root_dir", "下載資料夾")
	v.SetDefault("backend", "gemini")
	v.SetDefault("model", "")
	v.SetDefault("gemini_base_url", "")
	v.SetDefault("threshold", 1800)
	v.SetDefault("workers", 5)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("log_file", "transcriber.log")

	v.SetEnvPrefix("TRANSCRIBER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Credentials keep their conventional unprefixed names.
	_ = v.BindEnv("gemini_api_key", "GEMINI_API_KEY", "TRANSCRIBER_GEMINI_API_KEY")
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY", "TRANSCRIBER_OPENAI_API_KEY")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate checks the fatal preconditions: a known backend, its credential,
// and a writable root directory. It runs once before any file is processed.
func (c Config) Validate() error {
	switch c.Backend {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is not set")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is not set")
		}
	default:
		return fmt.Errorf("unknown backend %q (want gemini or openai)", c.Backend)
	}

	info, err := os.Stat(c.RootDir)
	if err != nil {
		return fmt.Errorf("root directory %s: %w", c.RootDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root directory %s is not a directory", c.RootDir)
	}

	// Transcripts are written beside the audio files, so the root must be
	// writable.
	probe := filepath.Join(c.RootDir, ".write_check")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return fmt.Errorf("root directory %s is not writable: %w", c.RootDir, err)
	}
	os.Remove(probe)

	return nil
}
