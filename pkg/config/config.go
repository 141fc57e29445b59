package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		// Set default values
		setDefaults()

		// Set up environment variable reading for overrides
		viper.SetEnvPrefix("IEEG")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		// Load config from fixed location (cleaned for safety)
		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		// Try to read the config file
		if err := viper.ReadInConfig(); err != nil {
			// If the config file doesn't exist, just use defaults and env vars
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		// Validate the configuration
		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetFloat64 returns a float64 config value
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetFloat64("clips.window_seconds") <= 0 {
		return fmt.Errorf("clips.window_seconds must be positive")
	}

	if viper.GetFloat64("clips.interictal_buffer_seconds") < 0 {
		return fmt.Errorf("clips.interictal_buffer_seconds must not be negative")
	}

	if viper.GetString("database.path") == "" {
		fmt.Println("Warning: No database path configured")
	}

	// REDCap credentials are only needed when fetching from the portal,
	// so placeholder values are a warning, not an error.
	token := viper.GetString("redcap.token")
	if token == "" || token == "CHANGEME" {
		fmt.Println("Warning: REDCap token is not configured; portal fetch disabled")
	}

	// Auto-correct invalid worker count
	if viper.GetInt("processing.workers") <= 0 {
		viper.Set("processing.workers", 2)
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Clips.WindowSeconds <= 0 {
		return fmt.Errorf("clips.window_seconds must be positive")
	}

	if c.Clips.InterictalBufferSeconds < 0 {
		return fmt.Errorf("clips.interictal_buffer_seconds must not be negative")
	}

	if c.Processing.Workers <= 0 {
		c.Processing.Workers = 2
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Environment defaults
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)
	viper.SetDefault("server.max_body_bytes", 1048576)
	viper.SetDefault("server.rate_limit_rps", 10)
	viper.SetDefault("server.rate_limit_burst", 20)

	// Database defaults
	viper.SetDefault("database.path", "./data/clips.db")
	viper.SetDefault("database.max_connections", 10)
	viper.SetDefault("database.max_idle_connections", 5)
	viper.SetDefault("database.connection_max_lifetime", 30*time.Minute)
	viper.SetDefault("database.enable_wal", true)
	viper.SetDefault("database.verbose", false)

	// Processing defaults
	viper.SetDefault("processing.workers", 2)
	viper.SetDefault("processing.poll_interval", 2*time.Second)
	viper.SetDefault("processing.job_timeout", 30*time.Minute)

	// Clip engine defaults: 1-minute windows, 1-hour seizure buffer,
	// day = [06:00, 20:00) local clock.
	viper.SetDefault("clips.window_seconds", 60.0)
	viper.SetDefault("clips.interictal_buffer_seconds", 3600.0)
	viper.SetDefault("clips.day_start", "06:00")
	viper.SetDefault("clips.day_end", "20:00")
	viper.SetDefault("clips.timezone", "America/New_York")

	// REDCap defaults
	viper.SetDefault("redcap.url", "https://redcap.med.upenn.edu/api/")
	viper.SetDefault("redcap.timeout", 30*time.Second)
	viper.SetDefault("redcap.rate_limit", 5)

	// Manual validation sheet defaults
	viper.SetDefault("sheets.seizure_sheet", "seizure_times")
	viper.SetDefault("sheets.start_time_sheet", "start_times")
	viper.SetDefault("sheets.timeout", 30*time.Second)

	// Export defaults
	viper.SetDefault("export.dir", "./data/exports")
}
