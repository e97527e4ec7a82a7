// internal/config/config.go

// Package config loads the application configuration from the environment.
// Sections are tagged with envPrefix so each subsystem reads variables
// under its own prefix.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTP     HTTP     `envPrefix:"HTTP_"`
	DB       Database `envPrefix:"DB_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	AMQP     AMQP     `envPrefix:"AMQP_"`
	Bedrock  Bedrock  `envPrefix:"BEDROCK_"`
	Outreach Outreach `envPrefix:"OUTREACH_"`
}

type HTTP struct {
	Port uint16 `env:"PORT" envDefault:"8080"`
}

type Database struct {
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD" envDefault:"postgres"`
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	Name     string `env:"NAME" envDefault:"outreach"`
}

// DSN renders the lib/pq connection string.
func (d Database) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type Redis struct {
	// Addr is empty when no Redis is available; the server then falls
	// back to the in-process daily counter.
	Addr string `env:"ADDR"`
}

type AMQP struct {
	// URL is empty when no broker is available; the server then falls
	// back to the in-process queue.
	URL string `env:"URL"`
}

type Bedrock struct {
	ModelID  string `env:"MODEL_ID" envDefault:"anthropic.claude-3-sonnet-20240229-v1:0"`
	Region   string `env:"REGION" envDefault:"us-east-1"`
	Disabled bool   `env:"DISABLED" envDefault:"false"`
}

// Outreach carries the organization-level defaults seeded for the primary
// org; campaign rows may override the follow-up settings.
type Outreach struct {
	DailySendCap        int    `env:"DAILY_SEND_CAP" envDefault:"12"`
	FollowUpWindowHours int    `env:"FOLLOWUP_WINDOW_HOURS" envDefault:"72"`
	MaxFollowUps        int    `env:"MAX_FOLLOWUPS" envDefault:"2"`
	Currency            string `env:"CURRENCY" envDefault:"ZAR"`
	CurrencySymbol      string `env:"CURRENCY_SYMBOL" envDefault:"R"`
	SenderName          string `env:"SENDER_NAME" envDefault:"S&P Smiles Co. Outreach"`
	SenderEmail         string `env:"SENDER_EMAIL" envDefault:"outreach@spsmiles.co.za"`
}

// Load reads all sections from the environment, applying defaults for
// anything unset.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
