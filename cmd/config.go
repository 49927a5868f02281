package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	DBHost     string `env:"DB_HOST"     envDefault:"localhost"`
	DBPort     string `env:"DB_PORT"     envDefault:"5432"`
	DBUser     string `env:"DB_USER"     envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"     envDefault:"dispatch"`
	DBSslMode  string `env:"DB_SSLMODE"  envDefault:"disable"`

	LogLevel              string        `env:"LOG_LEVEL"               envDefault:"info"`
	BacklogReportSchedule string        `env:"BACKLOG_REPORT_SCHEDULE" envDefault:"0 * * * * *"`
	ShutdownTimeout       time.Duration `env:"SHUTDOWN_TIMEOUT"        envDefault:"10s"`
}

// LoadConfig reads an optional .env file from path, then the environment.
// Variables already set in the environment win over the file.
func LoadConfig(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) HTTPAddress() string {
	return net.JoinHostPort("0.0.0.0", c.HTTPPort)
}

// DSN renders the Postgres connection string in URL form, escaping credentials.
func (c Config) DSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSslMode}}.Encode(),
	}
	return dsn.String()
}
