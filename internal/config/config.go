package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/julianstephens/careagent/internal/constants"
	apperrors "github.com/julianstephens/careagent/internal/errors"
	"github.com/julianstephens/careagent/internal/keyring"
)

var (
	dotenvFiles       = []string{".env"}
	userHomeDirFunc   = os.UserHomeDir
	keyringGetAPIFunc = keyring.GetAPIKey
)

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Advisory AdvisoryConfig `yaml:"advisory"`
	Alarm    AlarmConfig    `yaml:"alarm"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" env:"CAREAGENT_DB_PATH" env-default:"~/.config/careagent/care_data.db"`
}

type LogConfig struct {
	Dir   string `yaml:"dir"   env:"CAREAGENT_LOG_DIR"   env-default:"~/.config/careagent/logs"`
	Debug bool   `yaml:"debug" env:"CAREAGENT_DEBUG"     env-default:"false"`
}

// AdvisoryConfig holds the model provider settings.
type AdvisoryConfig struct {
	APIKey       string        `yaml:"api_key"       env:"GROQ_API_KEY"`
	BaseURL      string        `yaml:"base_url"      env:"CAREAGENT_PROVIDER_URL"  env-default:"https://api.groq.com/openai/v1"`
	Model        string        `yaml:"model"         env:"CAREAGENT_MODEL"         env-default:"llama-3.3-70b-versatile"`
	Timeout      time.Duration `yaml:"timeout"       env:"CAREAGENT_TIMEOUT"       env-default:"30s"`
	RetryBackoff time.Duration `yaml:"retry_backoff" env:"CAREAGENT_RETRY_BACKOFF" env-default:"500ms"`
}

// AlarmConfig controls the routine alarm watcher.
type AlarmConfig struct {
	PollInterval time.Duration `yaml:"poll_interval" env:"CAREAGENT_ALARM_POLL" env-default:"10s"`
	Dedupe       bool          `yaml:"dedupe"        env:"CAREAGENT_ALARM_DEDUPE" env-default:"false"`
}

// Load reads configuration from .env, a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// The YAML path is path if given, then CAREAGENT_CONFIG, then
// ~/.config/careagent/config.yaml. A missing file is only an error when it
// was named explicitly.
func Load(path string) (*Config, error) {
	if err := loadDotenv(); err != nil {
		return nil, err
	}

	var cfg Config

	if path == "" {
		path = os.Getenv("CAREAGENT_CONFIG")
	}
	explicitPath := path != ""
	if !explicitPath {
		path = filepath.Join(constants.DefaultConfigDir, "config.yaml")
	}
	path = ExpandHome(path)

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, apperrors.Configuration("config file", fmt.Sprintf("%s: %v", path, err))
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	cfg.Database.Path = ExpandHome(cfg.Database.Path)
	cfg.Log.Dir = ExpandHome(cfg.Log.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadDotenv exports variables from .env files without overriding the
// existing environment.
func loadDotenv() error {
	for _, file := range dotenvFiles {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	return nil
}

// Validate checks values that cannot be expressed as tag defaults.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return apperrors.Configuration("database.path", "cannot be empty")
	}
	if strings.TrimSpace(c.Advisory.BaseURL) == "" {
		return apperrors.Configuration("advisory.base_url", "cannot be empty")
	}
	if strings.TrimSpace(c.Advisory.Model) == "" {
		return apperrors.Configuration("advisory.model", "cannot be empty")
	}
	if c.Advisory.Timeout <= 0 {
		return apperrors.Configuration("advisory.timeout", "must be positive")
	}
	if c.Advisory.RetryBackoff < 0 {
		return apperrors.Configuration("advisory.retry_backoff", "cannot be negative")
	}
	if c.Alarm.PollInterval <= 0 {
		return apperrors.Configuration("alarm.poll_interval", "must be positive")
	}
	return nil
}

// ResolveAPIKey returns the provider key from config or environment, then
// from the OS keyring. A missing key is a ConfigurationError.
func (c *Config) ResolveAPIKey() (string, error) {
	if key := strings.TrimSpace(c.Advisory.APIKey); key != "" {
		return key, nil
	}

	key, err := keyringGetAPIFunc()
	if err == nil && key != "" {
		return key, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return "", apperrors.Configuration("GROQ_API_KEY", fmt.Sprintf("not set and keyring lookup failed: %v", err))
	}
	return "", apperrors.Configuration("GROQ_API_KEY", "not found in environment, .env or OS keyring")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := userHomeDirFunc()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
