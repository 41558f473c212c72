package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"hoopsleague/database"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// HTTP admin surface
	HTTPAddr string

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated); empty disables publishing

	// Fees, in minor units
	TeamCreationFee int64

	// Scheduler configuration
	SchedulerInterval time.Duration
	LineupDeadline    time.Duration

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

// fileConfig is the optional YAML file named by LEAGUE_CONFIG_FILE.
// Environment variables win over the file.
type fileConfig struct {
	HTTPAddr    string `yaml:"http_addr"`
	NATSServers string `yaml:"nats_servers"`
	Fees        struct {
		TeamCreation *int64 `yaml:"team_creation"`
	} `yaml:"fees"`
	Scheduler struct {
		Interval       string `yaml:"interval"`
		LineupDeadline string `yaml:"lineup_deadline"`
	} `yaml:"scheduler"`
	LogLevel string `yaml:"log_level"`
}

// Defaults
const (
	DefaultHTTPAddr          = ":8080"
	DefaultTeamCreationFee   = 500000
	DefaultSchedulerInterval = 30 * time.Second
	DefaultLineupDeadline    = time.Hour
)

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// load loads configuration from .env, the optional YAML file and environment variables
func load() (*Config, error) {
	// A missing .env file is fine
	_ = godotenv.Load()

	config := &Config{
		HTTPAddr:          DefaultHTTPAddr,
		TeamCreationFee:   DefaultTeamCreationFee,
		SchedulerInterval: DefaultSchedulerInterval,
		LineupDeadline:    DefaultLineupDeadline,
		LogLevel:          "info",
	}

	if path := os.Getenv("LEAGUE_CONFIG_FILE"); path != "" {
		if err := applyFile(config, path); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(config); err != nil {
		return nil, err
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}
	if config.TeamCreationFee < 0 {
		return nil, fmt.Errorf("TEAM_CREATION_FEE cannot be negative")
	}

	return config, nil
}

// applyFile overlays the YAML file onto the defaults
func applyFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if file.HTTPAddr != "" {
		config.HTTPAddr = file.HTTPAddr
	}
	if file.NATSServers != "" {
		config.NATSServers = file.NATSServers
	}
	if file.Fees.TeamCreation != nil {
		config.TeamCreationFee = *file.Fees.TeamCreation
	}
	if file.Scheduler.Interval != "" {
		if config.SchedulerInterval, err = parsePositiveDuration("scheduler.interval", file.Scheduler.Interval); err != nil {
			return err
		}
	}
	if file.Scheduler.LineupDeadline != "" {
		if config.LineupDeadline, err = parsePositiveDuration("scheduler.lineup_deadline", file.Scheduler.LineupDeadline); err != nil {
			return err
		}
	}
	if file.LogLevel != "" {
		config.LogLevel = file.LogLevel
	}
	return nil
}

// applyEnv overrides settings with environment variables
func applyEnv(config *Config) error {
	config.DatabaseURL = os.Getenv("DATABASE_URL")
	config.DatabaseName = os.Getenv("DATABASE_NAME")
	config.Environment = os.Getenv("ENVIRONMENT")
	config.HTTPAddr = getEnvWithDefault("HTTP_ADDR", config.HTTPAddr)
	config.NATSServers = getEnvWithDefault("NATS_SERVERS", config.NATSServers)
	config.LogLevel = getEnvWithDefault("LOG_LEVEL", config.LogLevel)

	if fee := os.Getenv("TEAM_CREATION_FEE"); fee != "" {
		parsed, err := strconv.ParseInt(fee, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TEAM_CREATION_FEE %q: %w", fee, err)
		}
		config.TeamCreationFee = parsed
	}

	var err error
	if interval := os.Getenv("SCHEDULER_INTERVAL"); interval != "" {
		if config.SchedulerInterval, err = parsePositiveDuration("SCHEDULER_INTERVAL", interval); err != nil {
			return err
		}
	}
	if deadline := os.Getenv("LINEUP_DEADLINE"); deadline != "" {
		if config.LineupDeadline, err = parsePositiveDuration("LINEUP_DEADLINE", deadline); err != nil {
			return err
		}
	}
	return nil
}

func parsePositiveDuration(name, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return d, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:       "test",
		HTTPAddr:          DefaultHTTPAddr,
		TeamCreationFee:   DefaultTeamCreationFee,
		SchedulerInterval: DefaultSchedulerInterval,
		LineupDeadline:    DefaultLineupDeadline,
		LogLevel:          "debug",
	}
}
