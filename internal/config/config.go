package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	APIPort     string `env:"API_PORT" envDefault:"3000"`

	Mongo Mongo
	JWT   JWT
	CORS  CORS
	Kafka Kafka
}

type Mongo struct {
	URI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"MONGO_DATABASE" envDefault:"Pharmaca"`
}

type JWT struct {
	Secret string        `env:"JWT_SECRET_TOKEN,required,notEmpty"`
	TTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`
}

type CORS struct {
	Origins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

type Kafka struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"payment-events"`
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads .env when present and parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
