package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting. Values come from the environment,
// optionally seeded from a .env file in the working directory.
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	ServerPort string `env:"SERVER_PORT" envDefault:":8080"`
	CertFile   string `env:"CERT_FILE"`
	KeyFile    string `env:"KEY_FILE"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"mysql"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"./data/chikwama.db"`

	JWTSecret            string `env:"JWT_SECRET"`
	ResetTokenExpMinutes int    `env:"RESET_TOKEN_EXP_DURATION" envDefault:"60"`

	SMTPEmail string `env:"SMTP_EMAIL"`
	SMTPPass  string `env:"SMTP_PASS"`
	SMTPHost  string `env:"SMTP_HOST"`
	SMTPPort  int    `env:"SMTP_PORT" envDefault:"587"`

	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"chikwama"`
	AMQPQueue    string `env:"AMQP_QUEUE" envDefault:"transaction_events"`
}

// Load reads .env if present, then parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// DSN builds the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite" {
		return c.SQLitePath
	}
	// multiStatements is required for multi-statement migration files.
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?multiStatements=true", c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}
