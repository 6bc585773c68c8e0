package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/wsafety/desk/pkg/tokenstore"
)

const (
	defaultTokenFile             = "~/.desk/credentials.yaml"
	defaultLogDir                = "logs"
	defaultNotificationQueueSize = 20
)

// Config represents the application configuration
type Config struct {
	VerificationBaseURL   string `yaml:"verificationBaseURL" validate:"required,url"`
	DispatchBaseURL       string `yaml:"dispatchBaseURL,omitempty" validate:"omitempty,url"`
	TokenFile             string `yaml:"tokenFile,omitempty"`
	TokenKey              string `yaml:"tokenKey,omitempty"`
	LogDir                string `yaml:"logDir,omitempty"`
	MetricsAddr           string `yaml:"metricsAddr,omitempty" validate:"omitempty,hostname_port"`
	NotificationQueueSize int    `yaml:"notificationQueueSize,omitempty" validate:"min=1"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// FileName returns the config file name for an environment
func FileName(env string) string {
	return fmt.Sprintf("desk_config.%s.yaml", env)
}

// LoadWithEnv loads desk_config.<env>.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func LoadWithEnv(env string) (*Config, error) {
	if env == "" {
		return nil, fmt.Errorf("environment is required")
	}

	configPath, err := findConfigFile(FileName(env))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DispatchBaseURL == "" {
		c.DispatchBaseURL = c.VerificationBaseURL
	}
	if c.TokenFile == "" {
		c.TokenFile = defaultTokenFile
	}
	if c.TokenKey == "" {
		c.TokenKey = tokenstore.DefaultKey
	}
	if c.LogDir == "" {
		c.LogDir = defaultLogDir
	}
	if c.NotificationQueueSize == 0 {
		c.NotificationQueueSize = defaultNotificationQueueSize
	}
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// TokenPath returns the token file path with a leading ~ expanded
func (c *Config) TokenPath() (string, error) {
	return expandHome(c.TokenFile)
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}

// findConfigFile searches for configFileName in current directory and home directory
func findConfigFile(configFileName string) (string, error) {
	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", configFileName)
}
