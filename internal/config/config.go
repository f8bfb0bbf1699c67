package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath — путь к конфигу, если CONFIG_PATH не задан
const DefaultPath = "config/config.yaml"

// Config определяет структуру конфигурации всего приложения целиком
type Config struct {
	HTTPServer  `yaml:"http_server"`
	Postgres    `yaml:"postgres"`
	Kafka       `yaml:"kafka"`
	Logger      `yaml:"logger"`
	Eligibility `yaml:"eligibility"`
}

// HTTPServer содержит конфигурацию для HTTP-сервера
type HTTPServer struct {
	Port    string        `yaml:"port"`
	Timeout time.Duration `yaml:"timeout"`
}

// Postgres содержит конфигурацию для подключения к базе данных
type Postgres struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	DBName   string `yaml:"db_name"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int32  `yaml:"max_conns"`
}

// DSN собирает строку подключения для pgx
func (p Postgres) DSN() string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode,
	)
}

// Kafka содержит конфигурацию для подключения к кафке
// SubmissionsTopic — заявки с кухонных терминалов, AcceptedTopic — принятые заказы
type Kafka struct {
	Brokers          []string `yaml:"brokers"`
	SubmissionsTopic string   `yaml:"submissions_topic"`
	AcceptedTopic    string   `yaml:"accepted_topic"`
	GroupID          string   `yaml:"group_id"`
}

// Logger содержит конфигурацию для логгера
type Logger struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Eligibility содержит настройки правил заказа
// CategoryMatch: "name" (по умолчанию) или "id"
type Eligibility struct {
	CategoryMatch string `yaml:"category_match"`
}

// Path возвращает путь к конфигу из CONFIG_PATH или путь по умолчанию
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// Load читает и разбирает конфигурацию из файла
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, errors.New("config path is empty")
	}

	file, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configPath)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.setDefaults()
	return &cfg, nil
}

// MustLoad загружает конфигурацию из файла по указанному пути
// в случае ошибки программа завершается с фатальной ошибкой
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func (c *Config) setDefaults() {
	if c.HTTPServer.Port == "" {
		c.HTTPServer.Port = ":8080"
	}
	if c.HTTPServer.Timeout == 0 {
		c.HTTPServer.Timeout = 5 * time.Second
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "INFO"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "text"
	}
	if c.Eligibility.CategoryMatch == "" {
		c.Eligibility.CategoryMatch = "name"
	}
}
