package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	SnapshotBackend   string `env:"SNAPSHOT_BACKEND" envDefault:"file"`
	SnapshotFormat    string `env:"SNAPSHOT_FORMAT" envDefault:"record"`
	SnapshotPath      string `env:"SNAPSHOT_PATH" envDefault:"data/marketplace.json"`
	SnapshotRetention int    `env:"SNAPSHOT_RETENTION" envDefault:"10"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisKey      string `env:"REDIS_KEY" envDefault:"marketplace:snapshot"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"marketplace"`
	DBSslMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// Events are published only when AMQPURL is set.
	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"marketplace.orders"`

	DispatchSchedule string `env:"DISPATCH_SCHEDULE" envDefault:"*/5 * * * * *"`
	AutosaveSchedule string `env:"AUTOSAVE_SCHEDULE" envDefault:"0 * * * * *"`
	RelaySchedule    string `env:"RELAY_SCHEDULE" envDefault:"* * * * * *"`
}

// LoadConfig loads envFile into the process environment, if the file
// exists, and parses the environment.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("error loading %s: %w", envFile, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("error while parsing config: %w", err)
	}
	return cfg, cfg.Validate()
}

// ParseConfig reads the configuration from environment instead of the
// process environment.
func ParseConfig(environment map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return Config{}, fmt.Errorf("error while parsing config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if !slices.Contains([]string{BackendFile, BackendRedis, BackendPostgres}, c.SnapshotBackend) {
		errs = append(errs, fmt.Errorf("SNAPSHOT_BACKEND %q is not one of file, redis, postgres", c.SnapshotBackend))
	}
	if _, err := NewCodec(c.SnapshotFormat); err != nil {
		errs = append(errs, err)
	}
	if c.SnapshotRetention < 0 {
		errs = append(errs, fmt.Errorf("SNAPSHOT_RETENTION %d is negative", c.SnapshotRetention))
	}
	return errors.Join(errs...)
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
