// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
// Values are read once at startup and treated as immutable.
type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	DBPath         string        `env:"DB_PATH" envDefault:"./data/receipts.db"`
	FontPath       string        `env:"FONT_PATH" envDefault:"./assets/Poppins-Regular.ttf"`
	JWTSecret      string        `env:"JWT_SECRET" envDefault:"devsecret"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"2h"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
}

// New loads configuration from environment variables.
func New() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
