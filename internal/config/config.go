// Package config содержит логику чтения конфигурации сервиса servicepoint.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации сервиса servicepoint.
type Config struct {
	RunAddress   string        `env:"RUN_ADDRESS"`
	DataDir      string        `env:"DATA_DIR"`
	PaymentDelay time.Duration `env:"PAYMENT_DELAY"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDataDir := cfg.DataDir
	envPaymentDelay := cfg.PaymentDelay

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DataDir, "d", "data", "directory for persisted collections")
	flag.DurationVar(&cfg.PaymentDelay, "p", 2*time.Second, "simulated payment processing delay")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDataDir != "" {
		cfg.DataDir = envDataDir
	}
	if envPaymentDelay != 0 {
		cfg.PaymentDelay = envPaymentDelay
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.PaymentDelay <= 0 {
		cfg.PaymentDelay = 2 * time.Second
	}

	return cfg, nil
}
