package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string        `mapstructure:"log_format" yaml:"log_format"`

	// DatabasePath locates the user account database. ":memory:" keeps accounts volatile.
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`

	JWTSecret   string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer   string        `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience string        `mapstructure:"jwt_audience" yaml:"jwt_audience"`
	JWTTTL      time.Duration `mapstructure:"jwt_ttl" yaml:"jwt_ttl"`

	// AllowedOrigins restricts WebSocket origins; empty accepts any origin.
	AllowedOrigins    []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	MaxMessageBytes   int64    `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	MessagesPerMinute int      `mapstructure:"messages_per_minute" yaml:"messages_per_minute"`
	ClientBuffer      int      `mapstructure:"client_buffer" yaml:"client_buffer"`

	Rooms RoomsConfig `mapstructure:"rooms" yaml:"rooms"`
}

// RoomsConfig holds room lifecycle policy.
type RoomsConfig struct {
	GCEmpty bool `mapstructure:"gc_empty" yaml:"gc_empty"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":4000",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		LogFormat:         "console",
		DatabasePath:      ":memory:",
		JWTSecret:         "change-me",
		JWTIssuer:         "chatroom",
		JWTAudience:       "chatroom",
		JWTTTL:            7 * 24 * time.Hour,
		MaxMessageBytes:   64 << 10,
		MessagesPerMinute: 60,
		ClientBuffer:      64,
	}
}
