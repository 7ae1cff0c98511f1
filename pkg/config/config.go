package config

import "time"

// Config holds runtime configuration for the kenpo reservation bot.
type Config struct {
	AppEnv string `mapstructure:"-"`

	Server struct {
		Port            string        `mapstructure:"port" validate:"required"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`

	Redis struct {
		Addr         string        `mapstructure:"addr" validate:"required"`
		Password     string        `mapstructure:"password"`
		DB           int           `mapstructure:"db"`
		PoolSize     int           `mapstructure:"pool_size"`
		MinIdleConns int           `mapstructure:"min_idle_conns"`
		PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
		IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	} `mapstructure:"redis"`

	Session struct {
		TTL time.Duration `mapstructure:"ttl" validate:"required"`
	} `mapstructure:"session"`

	Kenpo struct {
		BaseURL string        `mapstructure:"base_url" validate:"required,url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"kenpo"`

	RateLimit struct {
		Enabled bool          `mapstructure:"enabled"`
		Limit   int           `mapstructure:"limit"`
		Window  time.Duration `mapstructure:"window"`
	} `mapstructure:"ratelimit"`

	Sentry struct {
		Enabled bool   `mapstructure:"enabled"`
		DSN     string `mapstructure:"dsn" validate:"required_if=Enabled true"`
	} `mapstructure:"sentry"`

	Log struct {
		Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
		File  string `mapstructure:"file"`
	} `mapstructure:"log"`

	I18n struct {
		Dir         string `mapstructure:"dir" validate:"required"`
		DefaultLang string `mapstructure:"default_lang" validate:"required"`
	} `mapstructure:"i18n"`
}
