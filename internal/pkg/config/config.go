package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	Scraper     ScraperConfig     `yaml:"scraper"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Screenshots ScreenshotsConfig `yaml:"screenshots"`
	Telegram    TelegramConfig    `yaml:"telegram"`
}

type ServerConfig struct {
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type ScraperConfig struct {
	ChromePath     string        `yaml:"chrome_path"`      // chromium binary, default /usr/bin/chromium
	NavTimeout     time.Duration `yaml:"nav_timeout"`      // browser launch and initial navigation
	LoginTimeout   time.Duration `yaml:"login_timeout"`    // full login attempt
	SessionIdleTTL time.Duration `yaml:"session_idle_ttl"` // pool eviction threshold
	SweepInterval  time.Duration `yaml:"sweep_interval"`   // pool sweep timer
	MaxPages       int           `yaml:"max_pages"`        // pagination hard cap
}

type CredentialsConfig struct {
	SpreadsheetID string        `yaml:"spreadsheet_id"`
	Sheet         string        `yaml:"sheet"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
}

type ScreenshotsConfig struct {
	Dir string `yaml:"dir"` // empty disables screenshot capture
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"` // empty disables notifications
	ChatID   int64  `yaml:"chat_id"`
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadHeaderTimeout <= 0 {
		c.Server.ReadHeaderTimeout = 10 * time.Second
	}
	if c.Scraper.ChromePath == "" {
		c.Scraper.ChromePath = "/usr/bin/chromium"
	}
	if c.Scraper.NavTimeout <= 0 {
		c.Scraper.NavTimeout = 60 * time.Second
	}
	if c.Scraper.LoginTimeout <= 0 {
		c.Scraper.LoginTimeout = 90 * time.Second
	}
	if c.Scraper.SessionIdleTTL <= 0 {
		c.Scraper.SessionIdleTTL = 30 * time.Minute
	}
	if c.Scraper.SweepInterval <= 0 {
		c.Scraper.SweepInterval = time.Minute
	}
	if c.Scraper.MaxPages <= 0 {
		c.Scraper.MaxPages = 150
	}
	if c.Credentials.Sheet == "" {
		c.Credentials.Sheet = "Sheet1"
	}
	if c.Credentials.FetchTimeout <= 0 {
		c.Credentials.FetchTimeout = 30 * time.Second
	}
	if c.Credentials.CacheTTL <= 0 {
		c.Credentials.CacheTTL = 5 * time.Minute
	}
}
