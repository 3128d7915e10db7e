package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"prod"`
	HTTPServer `yaml:"http_server"`
	Storage    Storage    `yaml:"storage"`
	Auth       Auth       `yaml:"auth"`
	Validation Validation `yaml:"validation"`
	Levels     Levels     `yaml:"levels"`
	Log        Log        `yaml:"log"`
	Client     Client     `yaml:"client"`
}

type HTTPServer struct {
	Address        string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout        time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env-default:"60s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env-default:"http://localhost:5173"`
}

// Storage selects the database. Driver is "mysql" or "sqlite"; Path is only
// used by sqlite.
type Storage struct {
	Driver     string `yaml:"driver" env:"DB_DRIVER" env-default:"mysql"`
	DBUser     string `yaml:"db_user" env:"DB_USER"`
	DBPassword string `yaml:"db_password" env:"DB_PASSWORD"`
	DBHost     string `yaml:"db_host" env:"DB_HOST" env-default:"localhost"`
	DBPort     int    `yaml:"db_port" env:"DB_PORT" env-default:"3306"`
	DBName     string `yaml:"db_name" env:"DB_NAME" env-default:"copilot"`
	Path       string `yaml:"path" env:"DB_PATH" env-default:"./copilot.db"`
	Migrate    bool   `yaml:"migrate" env:"DB_MIGRATE" env-default:"true"`
}

// Auth guards the mutating endpoints. An empty login disables the guard.
type Auth struct {
	Login    string `yaml:"login" env:"AUTH_LOGIN"`
	Password string `yaml:"password" env:"AUTH_PASSWORD"`
}

type Validation struct {
	Locale string `yaml:"locale" env:"VALIDATION_LOCALE" env-default:"zh-Hans"`
}

type Levels struct {
	SeedFile  string        `yaml:"seed_file" env:"LEVELS_SEED_FILE"`
	CacheSize int           `yaml:"cache_size" env-default:"16"`
	CacheTTL  time.Duration `yaml:"cache_ttl" env-default:"10m"`
}

type Log struct {
	ErrorFile  string `yaml:"error_file" env:"LOG_ERROR_FILE" env-default:"errors.log"`
	MaxSizeMB  int    `yaml:"max_size_mb" env-default:"10"`
	MaxBackups int    `yaml:"max_backups" env-default:"5"`
	MaxAgeDays int    `yaml:"max_age_days" env-default:"30"`
}

// Client configures copilotctl's connection to a running service.
type Client struct {
	BaseURL string        `yaml:"base_url" env:"COPILOT_API" env-default:"http://localhost:4001/api"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
	Login   string        `yaml:"login" env:"COPILOT_LOGIN"`
	Token   string        `yaml:"token" env:"COPILOT_TOKEN"`
}

// Load reads the YAML file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// LoadEnv builds a config from defaults and the environment only.
func LoadEnv() (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config.LoadEnv: %w", err)
	}
	return &cfg, nil
}

// MustConfig loads the file named by CONFIG_PATH, or ./config/local.yaml.
func MustConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}
