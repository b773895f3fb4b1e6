package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type NotifierConfig struct {
	// Pause between a completed notification and promoting the next queued
	// one, so the host UI can finish its dismiss animation. Zero or negative
	// promotes immediately (used by tests).
	SettleDelay time.Duration `yaml:"settleDelay"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTL     int  `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server         `yaml:"webServer"`
	Persistence Persistence    `yaml:"persistence"`
	Logger      LoggerConfig   `yaml:"logger"`
	Notifier    NotifierConfig `yaml:"notifier"`
	Cache       CacheConfig    `yaml:"cache"`
	Metrics     MetricsConfig  `yaml:"metrics"`
}
