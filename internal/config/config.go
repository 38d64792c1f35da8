package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"paydirect/internal/worldline"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Worldline WorldlineConfig
	Webhook   WebhookConfig
	Poll      PollConfig
	API       APIConfig
}

type APIConfig struct {
	Key string
}

type ServerConfig struct {
	Port int
	Env  string // "development", "production"
}

type DatabaseConfig struct {
	Host    string
	Port    string
	Name    string
	User    string
	Pass    string
	Charset string
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

// WorldlineConfig carries one credential set per environment plus the
// mode selecting which of the two is active.
type WorldlineConfig struct {
	Mode string // "test" or "live"
	Test EnvironmentConfig
	Live EnvironmentConfig

	Variant                   string
	MerchantReferenceTemplate string
	DescriptorTemplate        string
}

type EnvironmentConfig struct {
	APIHost    string
	MerchantID string
	APIKey     string
	APISecret  string
}

type WebhookConfig struct {
	// BaseURL is the public root of this service, used to build the
	// webhook URLs handed to Worldline.
	BaseURL string
	// Namespace is the route namespace of the webhook endpoint.
	Namespace string
}

type PollConfig struct {
	// Interval between status polls of open payments.
	Interval time.Duration
	// ExpireAfter is how long an open payment may go without a status
	// change before the expiry job marks it expired.
	ExpireAfter time.Duration
}

// Load reads configuration from .env file and environment variables.
func Load() (*Config, error) {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("APP_PORT", 8080)
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_CHARSET", "utf8mb4")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("WORLDLINE_MODE", "test")
	viper.SetDefault("WORLDLINE_TEST_API_HOST", worldline.HostTest)
	viper.SetDefault("WORLDLINE_LIVE_API_HOST", worldline.HostLive)
	viper.SetDefault("WEBHOOK_NAMESPACE", "worldline/v1")
	viper.SetDefault("POLL_INTERVAL", "3m")
	viper.SetDefault("POLL_EXPIRE_AFTER", "24h")

	interval, err := time.ParseDuration(viper.GetString("POLL_INTERVAL"))
	if err != nil {
		interval = 3 * time.Minute
	}
	expireAfter, err := time.ParseDuration(viper.GetString("POLL_EXPIRE_AFTER"))
	if err != nil {
		expireAfter = 24 * time.Hour
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		Database: DatabaseConfig{
			Host:    viper.GetString("DB_HOST"),
			Port:    viper.GetString("DB_PORT"),
			Name:    viper.GetString("DB_NAME"),
			User:    viper.GetString("DB_USER"),
			Pass:    viper.GetString("DB_PASS"),
			Charset: viper.GetString("DB_CHARSET"),
		},
		Redis: RedisConfig{
			Addr: viper.GetString("REDIS_ADDR"),
			Pass: viper.GetString("REDIS_PASS"),
			DB:   viper.GetInt("REDIS_DB"),
		},
		Worldline: WorldlineConfig{
			Mode: viper.GetString("WORLDLINE_MODE"),
			Test: EnvironmentConfig{
				APIHost:    viper.GetString("WORLDLINE_TEST_API_HOST"),
				MerchantID: viper.GetString("WORLDLINE_TEST_MERCHANT_ID"),
				APIKey:     viper.GetString("WORLDLINE_TEST_API_KEY"),
				APISecret:  viper.GetString("WORLDLINE_TEST_API_SECRET"),
			},
			Live: EnvironmentConfig{
				APIHost:    viper.GetString("WORLDLINE_LIVE_API_HOST"),
				MerchantID: viper.GetString("WORLDLINE_LIVE_MERCHANT_ID"),
				APIKey:     viper.GetString("WORLDLINE_LIVE_API_KEY"),
				APISecret:  viper.GetString("WORLDLINE_LIVE_API_SECRET"),
			},
			Variant:                   viper.GetString("WORLDLINE_VARIANT"),
			MerchantReferenceTemplate: viper.GetString("WORLDLINE_MERCHANT_REFERENCE_TEMPLATE"),
			DescriptorTemplate:        viper.GetString("WORLDLINE_DESCRIPTOR_TEMPLATE"),
		},
		Webhook: WebhookConfig{
			BaseURL:   viper.GetString("WEBHOOK_BASE_URL"),
			Namespace: viper.GetString("WEBHOOK_NAMESPACE"),
		},
		Poll: PollConfig{
			Interval:    interval,
			ExpireAfter: expireAfter,
		},
		API: APIConfig{
			Key: viper.GetString("API_KEY"),
		},
	}

	if cfg.Database.Name == "" {
		log.Println("WARNING: DB_NAME is not set")
	}
	if cfg.Webhook.BaseURL == "" {
		log.Println("WARNING: WEBHOOK_BASE_URL is not set")
	}

	return cfg, nil
}

// ActiveWorldline resolves the Worldline connection parameters for the
// configured mode.
func (c *Config) ActiveWorldline() *worldline.Config {
	env := c.Worldline.Test
	if c.Worldline.Mode == "live" {
		env = c.Worldline.Live
	}
	return &worldline.Config{
		APIHost:                   env.APIHost,
		MerchantID:                env.MerchantID,
		APIKey:                    env.APIKey,
		APISecret:                 env.APISecret,
		Variant:                   c.Worldline.Variant,
		MerchantReferenceTemplate: c.Worldline.MerchantReferenceTemplate,
		DescriptorTemplate:        c.Worldline.DescriptorTemplate,
	}
}

// DSN returns the MySQL DSN string for GORM.
func (d *DatabaseConfig) DSN() string {
	return d.User + ":" + d.Pass + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Name + "?charset=" + d.Charset + "&parseTime=True&loc=Local"
}
