package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	LogLevel          string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort          string  `yaml:"http-port" env:"HTTP_PORT" env-default:"8080"`
	Storage           Storage `yaml:"storage"`
	Redis             Redis   `yaml:"redis"`
	SQLiteStoragePath string  `yaml:"sqlite-storage-path" env:"SQLITE_STORAGE_PATH" env-default:"gomoku.db"`
	Game              Game    `yaml:"game"`
}

type Storage struct {
	Backend string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"memory"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Game struct {
	// Retention is how long an idle session survives before expiry.
	Retention     time.Duration `yaml:"retention" env:"GAME_RETENTION" env-default:"1h"`
	SweepInterval time.Duration `yaml:"sweep-interval" env:"GAME_SWEEP_INTERVAL" env-default:"5m"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
