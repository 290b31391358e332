package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort          = "8080"
	defaultHostedTimeout = 15 * time.Second
	defaultChatTimeout   = 20 * time.Second
	minSecretKeyLength   = 32
)

var insecureSecretPlaceholders = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	Port         string       `yaml:"port"`
	DBPath       string       `yaml:"db_path"`
	SecretKey    string       `yaml:"secret_key"`
	CookieSecure bool         `yaml:"cookie_secure"`
	LogLevel     string       `yaml:"log_level"`
	ContentDir   string       `yaml:"content_dir"`
	Hosted       HostedConfig `yaml:"hosted"`
	Chat         ChatConfig   `yaml:"chat"`
}

type HostedConfig struct {
	URL     string        `yaml:"url"`
	AnonKey string        `yaml:"anon_key"`
	Timeout time.Duration `yaml:"timeout"`
}

type ChatConfig struct {
	GeminiAPIKey string        `yaml:"gemini_api_key"`
	GeminiModel  string        `yaml:"gemini_model"`
	OllamaURL    string        `yaml:"ollama_url"`
	OllamaModel  string        `yaml:"ollama_model"`
	Timeout      time.Duration `yaml:"timeout"`
}

func defaults() *Config {
	return &Config{
		Port:     defaultPort,
		DBPath:   filepath.Join("data", "mindharbor.db"),
		LogLevel: "info",
		Hosted:   HostedConfig{Timeout: defaultHostedTimeout},
		Chat:     ChatConfig{Timeout: defaultChatTimeout},
	}
}

// Load builds the configuration from defaults, then the optional YAML file at
// path, then environment variables. Environment values win.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config file: %w", err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.SecretKey = getEnv("SECRET_KEY", cfg.SecretKey)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.ContentDir = getEnv("CONTENT_DIR", cfg.ContentDir)
	cfg.Hosted.URL = getEnv("HOSTED_URL", cfg.Hosted.URL)
	cfg.Hosted.AnonKey = getEnv("HOSTED_ANON_KEY", cfg.Hosted.AnonKey)
	cfg.Chat.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.Chat.GeminiAPIKey)
	cfg.Chat.GeminiModel = getEnv("GEMINI_MODEL", cfg.Chat.GeminiModel)
	cfg.Chat.OllamaURL = getEnv("OLLAMA_URL", cfg.Chat.OllamaURL)
	cfg.Chat.OllamaModel = getEnv("OLLAMA_MODEL", cfg.Chat.OllamaModel)

	var err error
	if cfg.CookieSecure, err = getEnvBool("COOKIE_SECURE", cfg.CookieSecure); err != nil {
		return err
	}
	if cfg.Hosted.Timeout, err = getEnvDuration("HOSTED_TIMEOUT", cfg.Hosted.Timeout); err != nil {
		return err
	}
	if cfg.Chat.Timeout, err = getEnvDuration("CHAT_TIMEOUT", cfg.Chat.Timeout); err != nil {
		return err
	}
	return nil
}

func (cfg *Config) Validate() error {
	secret, err := ResolveSecretKey(cfg.SecretKey)
	if err != nil {
		return err
	}
	cfg.SecretKey = secret

	port, err := ResolvePort(cfg.Port)
	if err != nil {
		return err
	}
	cfg.Port = port

	if err := validateHTTPURL("HOSTED_URL", cfg.Hosted.URL, true); err != nil {
		return err
	}
	if err := validateHTTPURL("OLLAMA_URL", cfg.Chat.OllamaURL, false); err != nil {
		return err
	}
	if cfg.Hosted.Timeout <= 0 {
		return errors.New("HOSTED_TIMEOUT must be positive")
	}
	if cfg.Chat.Timeout <= 0 {
		return errors.New("CHAT_TIMEOUT must be positive")
	}
	return nil
}

// ResolveSecretKey rejects empty, short and well-known placeholder secrets.
func ResolveSecretKey(raw string) (string, error) {
	secret := strings.TrimSpace(raw)
	if secret == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretPlaceholders[strings.ToLower(secret)]; insecure {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secret) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secret, nil
}

func ResolvePort(raw string) (string, error) {
	port := strings.TrimSpace(raw)
	if port == "" {
		return defaultPort, nil
	}
	value, err := strconv.Atoi(port)
	if err != nil {
		return "", fmt.Errorf("PORT must be numeric: %w", err)
	}
	if value < 1 || value > 65535 {
		return "", fmt.Errorf("PORT must be between 1 and 65535, got %d", value)
	}
	return strconv.Itoa(value), nil
}

func validateHTTPURL(name string, raw string, required bool) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", name, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) url", name)
	}
	return nil
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvBool(key string, fallback bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return value, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return value, nil
}
