// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	API      APIConfig      `mapstructure:"api"`
	Server   ServerConfig   `mapstructure:"server"`
	Session  SessionConfig  `mapstructure:"session"`
	Database DatabaseConfig `mapstructure:"database"`
	Animator AnimatorConfig `mapstructure:"animator"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// APIConfig points at the remote similarity/summarization/ranking service.
type APIConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	Timeout     int    `mapstructure:"timeout"` // milliseconds
	K           int    `mapstructure:"k"`
	AwardFilter string `mapstructure:"award_filter"`
}

type ServerConfig struct {
	Address    string `mapstructure:"address"`
	SessionTTL int    `mapstructure:"session_ttl"` // milliseconds
}

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type SessionConfig struct {
	Backend   string `mapstructure:"backend"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AnimatorStep is one progress message shown while the arena runs.
type AnimatorStep struct {
	Message  string `mapstructure:"message"`
	Duration int    `mapstructure:"duration"` // milliseconds
}

type AnimatorConfig struct {
	Steps []AnimatorStep `mapstructure:"steps"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// DefaultAnimatorSteps mirrors the messages shown by the hosted page.
func DefaultAnimatorSteps() []AnimatorStep {
	return []AnimatorStep{
		{Message: "Extracting key insights from winning projects...", Duration: 2000},
		{Message: "Sampling from models...", Duration: 6000},
		{Message: "Running embedding similarity...", Duration: 10000},
	}
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
