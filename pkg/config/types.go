package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment string           `mapstructure:"environment"`
	Server      ServerConfig     `mapstructure:"server"`
	Database    DatabaseConfig   `mapstructure:"database"`
	Processing  ProcessingConfig `mapstructure:"processing"`
	Clips       ClipsConfig      `mapstructure:"clips"`
	REDCap      REDCapConfig     `mapstructure:"redcap"`
	Sheets      SheetsConfig     `mapstructure:"sheets"`
	Export      ExportConfig     `mapstructure:"export"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
	// MaxBodyBytes caps mutating request bodies. Dataset and annotation
	// payloads are metadata, not signal data, so the cap stays small.
	MaxBodyBytes   int64 `mapstructure:"max_body_bytes"`
	RateLimitRPS   int   `mapstructure:"rate_limit_rps"`
	RateLimitBurst int   `mapstructure:"rate_limit_burst"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path                  string        `mapstructure:"path"`
	MaxConnections        int           `mapstructure:"max_connections"`
	MaxIdleConnections    int           `mapstructure:"max_idle_connections"`
	ConnectionMaxLifetime time.Duration `mapstructure:"connection_max_lifetime"`
	EnableWAL             bool          `mapstructure:"enable_wal"`
	Verbose               bool          `mapstructure:"verbose"`
}

// ProcessingConfig contains clip generation worker settings. Each worker
// owns one dataset's pipeline at a time; datasets never share state.
type ProcessingConfig struct {
	Workers      int           `mapstructure:"workers"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	JobTimeout   time.Duration `mapstructure:"job_timeout"`
}

// ClipsConfig contains the clip engine parameters
type ClipsConfig struct {
	// WindowSeconds is the fixed clip length used to tile recordings.
	WindowSeconds float64 `mapstructure:"window_seconds"`
	// InterictalBufferSeconds is the exclusion buffer around seizures.
	InterictalBufferSeconds float64 `mapstructure:"interictal_buffer_seconds"`
	// DayStart/DayEnd bound the diurnal day window, local clock "HH:MM".
	DayStart string `mapstructure:"day_start"`
	DayEnd   string `mapstructure:"day_end"`
	// Timezone is the fallback IANA zone for recordings without one.
	Timezone string `mapstructure:"timezone"`
}

// REDCapConfig contains REDCap report export settings
type REDCapConfig struct {
	URL       string        `mapstructure:"url"`
	Token     string        `mapstructure:"token"`
	ReportID  string        `mapstructure:"report_id"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit int           `mapstructure:"rate_limit"`
}

// SheetsConfig contains the manual validation Google Sheets settings
type SheetsConfig struct {
	SheetID        string        `mapstructure:"sheet_id"`
	SeizureSheet   string        `mapstructure:"seizure_sheet"`
	StartTimeSheet string        `mapstructure:"start_time_sheet"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// ExportConfig contains tabular export settings
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}
