package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
		UseSSL       bool   `yaml:"use_ssl"`
		Mock         bool   `yaml:"mock"` // true: письма только логируются
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Notify struct {
		ThrottleWindowSeconds int `yaml:"throttle_window_seconds"` // окно для email на один тред
		ThrottleSweepHours    int `yaml:"throttle_sweep_hours"`    // чистка устаревших ключей
		AwaySweepSeconds      int `yaml:"away_sweep_seconds"`      // проверка истекших окон отсутствия
		ReadRetentionDays     int `yaml:"read_retention_days"`     // хранение прочитанных уведомлений
	} `yaml:"notify"`
}

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")
	serverEnv := os.Getenv("SERVER_ENV")
	portStr := os.Getenv("SERVER_PORT")
	jwtSecret := os.Getenv("JWT_SECRET")

	if dbURL == "" {
		log.Println("Загрузка из config.yaml (режим НЕ-тест)")

		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyNotifyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	log.Println("Загрузка конфигурации из переменных окружения (режим теста)")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = serverEnv
	cfg.Server.Port, _ = strconv.Atoi(portStr)
	cfg.JWT.Secret = jwtSecret
	cfg.JWT.TTL = 60

	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "test@prowork.com"
	cfg.Email.FromName = "ProWork"
	cfg.Email.Mock = true

	applyNotifyDefaults(&cfg)
	AppConfig = &cfg
}

func applyNotifyDefaults(cfg *Config) {
	if cfg.Notify.ThrottleWindowSeconds <= 0 {
		cfg.Notify.ThrottleWindowSeconds = 60
	}
	if cfg.Notify.ThrottleSweepHours <= 0 {
		cfg.Notify.ThrottleSweepHours = 6
	}
	if cfg.Notify.AwaySweepSeconds <= 0 {
		cfg.Notify.AwaySweepSeconds = 30
	}
	if cfg.Notify.ReadRetentionDays <= 0 {
		cfg.Notify.ReadRetentionDays = 30
	}
}

// ThrottleWindow возвращает окно троттлинга как Duration
func (c *Config) ThrottleWindow() time.Duration {
	return time.Duration(c.Notify.ThrottleWindowSeconds) * time.Second
}

// AwaySweepInterval возвращает период фоновой проверки окон отсутствия
func (c *Config) AwaySweepInterval() time.Duration {
	return time.Duration(c.Notify.AwaySweepSeconds) * time.Second
}

// ThrottleSweepInterval возвращает период уборки устаревших ключей троттлинга
func (c *Config) ThrottleSweepInterval() time.Duration {
	return time.Duration(c.Notify.ThrottleSweepHours) * time.Hour
}

// ReadRetention возвращает срок хранения прочитанных уведомлений
func (c *Config) ReadRetention() time.Duration {
	return time.Duration(c.Notify.ReadRetentionDays) * 24 * time.Hour
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
