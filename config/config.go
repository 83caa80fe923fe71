package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration. Values come from defaults, then
// the optional YAML file, then environment variables.
type Config struct {
	Server struct {
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
		ServiceToken   string   `yaml:"serviceToken"`
	} `yaml:"server"`

	Store struct {
		Driver        string `yaml:"driver"` // memory, postgres, redis, mongo
		DatabaseURL   string `yaml:"databaseUrl"`
		RedisAddr     string `yaml:"redisAddr"`
		RedisPassword string `yaml:"redisPassword"`
		RedisDB       int    `yaml:"redisDb"`
		MongoURI      string `yaml:"mongoUri"`
		MongoDatabase string `yaml:"mongoDatabase"`
	} `yaml:"store"`

	Admin struct {
		Emails []string `yaml:"emails"`
	} `yaml:"admin"`

	Export struct {
		Dir               string `yaml:"dir"`
		R2AccountID       string `yaml:"r2AccountId"`
		R2AccessKeyID     string `yaml:"r2AccessKeyId"`
		R2AccessKeySecret string `yaml:"r2AccessKeySecret"`
		R2Bucket          string `yaml:"r2Bucket"`
		CDNBaseURL        string `yaml:"cdnBaseUrl"`
	} `yaml:"export"`

	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`

	Analytics struct {
		RefreshInterval string `yaml:"refreshInterval"`
	} `yaml:"analytics"`
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
)

// Default returns a configuration usable for local development.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = "5200"
	cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}
	cfg.Store.Driver = DriverMemory
	cfg.Store.RedisAddr = "localhost:6379"
	cfg.Store.MongoDatabase = "civiceye"
	cfg.Admin.Emails = []string{"admin@civiceye.com"}
	cfg.Export.Dir = "exports"
	cfg.Log.Level = "info"
	cfg.Analytics.RefreshInterval = "5m"
	return cfg
}

// Load reads .env (if present), the YAML file at path (if non-empty), and
// environment overrides, in that order.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("CIVICEYE_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PORT")
	setList(&cfg.Server.AllowedOrigins, "ALLOWED_ORIGINS")
	setString(&cfg.Server.ServiceToken, "SERVICE_TOKEN")

	setString(&cfg.Store.Driver, "STORE_DRIVER")
	setString(&cfg.Store.DatabaseURL, "DATABASE_URL")
	setString(&cfg.Store.RedisAddr, "REDIS_ADDR")
	setString(&cfg.Store.RedisPassword, "REDIS_PASSWORD")
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Store.RedisDB = n
		}
	}
	setString(&cfg.Store.MongoURI, "MONGO_URI")
	setString(&cfg.Store.MongoDatabase, "MONGO_DATABASE")

	setList(&cfg.Admin.Emails, "ADMIN_EMAILS")

	setString(&cfg.Export.Dir, "EXPORT_DIR")
	setString(&cfg.Export.R2AccountID, "CLOUDFLARE_ACCOUNT_ID")
	setString(&cfg.Export.R2AccessKeyID, "R2_ACCESS_KEY_ID")
	setString(&cfg.Export.R2AccessKeySecret, "R2_ACCESS_KEY_SECRET")
	setString(&cfg.Export.R2Bucket, "R2_BUCKET_NAME")
	setString(&cfg.Export.CDNBaseURL, "CDN_BASE_URL")

	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.File, "LOG_FILE")

	setString(&cfg.Analytics.RefreshInterval, "ANALYTICS_REFRESH_INTERVAL")
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// setList splits a comma-separated variable and trims each entry.
func setList(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	*dst = out
}

// Validate checks that the selected store backend has what it needs.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	case DriverRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis store")
		}
	case DriverMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo store")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if _, err := c.RefreshInterval(); err != nil {
		return err
	}
	return nil
}

// RefreshInterval parses Analytics.RefreshInterval.
func (c *Config) RefreshInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Analytics.RefreshInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid analytics refresh interval %q: %w", c.Analytics.RefreshInterval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("analytics refresh interval must be positive")
	}
	return d, nil
}

// R2Enabled reports whether exports should also be uploaded to object storage.
func (c *Config) R2Enabled() bool {
	return c.Export.R2Bucket != "" && c.Export.R2AccountID != "" && c.Export.R2AccessKeyID != ""
}

// IsAdminEmail reports whether email is configured as an administrator.
func (c *Config) IsAdminEmail(email string) bool {
	for _, e := range c.Admin.Emails {
		if strings.EqualFold(strings.TrimSpace(e), strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}
