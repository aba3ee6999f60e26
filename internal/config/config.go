package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Драйверы хранилища каталога
const (
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Mongo    MongoConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Catalog  CatalogConfig
	Log      LogConfig
	Metrics  MetricsConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type StorageConfig struct {
	Driver string
}

type MongoConfig struct {
	URI            string
	Host           string
	Port           int
	User           string
	Password       string
	Database       string
	Collection     string
	ConnectRetries int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrationsPath  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	CatalogCacheTTL time.Duration
	StatsCacheTTL   time.Duration
}

type CatalogConfig struct {
	GeoPrefilter   bool
	BreakerTimeout time.Duration
}

type LogConfig struct {
	Level string
}

type MetricsConfig struct {
	Enabled bool
	Port    int
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration // пауза опроса при пустом стриме
	MaxRetries        int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")

	v.SetDefault("STORAGE_DRIVER", StorageMongo)

	v.SetDefault("MONGO_HOST", "localhost")
	v.SetDefault("MONGO_PORT", 27017)
	v.SetDefault("MONGO_DATABASE", "EVAT")
	v.SetDefault("MONGO_COLLECTION", "charging_stations")
	v.SetDefault("MONGO_CONNECT_RETRIES", 5)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)

	v.SetDefault("CATALOG_CACHE_TTL", 60)
	v.SetDefault("STATS_CACHE_TTL", 300)
	v.SetDefault("CATALOG_GEO_PREFILTER", true)
	v.SetDefault("CATALOG_BREAKER_TIMEOUT", 30)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("METRICS_PORT", 9090)

	v.SetDefault("WORKER_ENABLED", true)
	v.SetDefault("WORKER_CONSUMER_GROUP", "charger-nearest-workers")
	v.SetDefault("WORKER_STREAM_READ_TIMEOUT", 200)
	v.SetDefault("WORKER_MAX_RETRIES", 3)
}

// Load читает конфигурацию из .env (если файл есть) и переменных окружения
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile - как Load, но с явным путём к env файлу
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("API_HOST"),
			Port: v.GetInt("API_PORT"),
			Env:  v.GetString("API_ENV"),
		},
		Storage: StorageConfig{
			Driver: v.GetString("STORAGE_DRIVER"),
		},
		Mongo: MongoConfig{
			URI:            v.GetString("MONGO_URI"),
			Host:           v.GetString("MONGO_HOST"),
			Port:           v.GetInt("MONGO_PORT"),
			User:           v.GetString("MONGO_USER"),
			Password:       v.GetString("MONGO_PASSWORD"),
			Database:       v.GetString("MONGO_DATABASE"),
			Collection:     v.GetString("MONGO_COLLECTION"),
			ConnectRetries: v.GetInt("MONGO_CONNECT_RETRIES"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
			MigrationsPath:  v.GetString("DB_MIGRATIONS_PATH"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			CatalogCacheTTL: time.Duration(v.GetInt("CATALOG_CACHE_TTL")) * time.Second,
			StatsCacheTTL:   time.Duration(v.GetInt("STATS_CACHE_TTL")) * time.Second,
		},
		Catalog: CatalogConfig{
			GeoPrefilter:   v.GetBool("CATALOG_GEO_PREFILTER"),
			BreakerTimeout: time.Duration(v.GetInt("CATALOG_BREAKER_TIMEOUT")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
			Port:    v.GetInt("METRICS_PORT"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxRetries:        v.GetInt("WORKER_MAX_RETRIES"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageMongo, StoragePostgres:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid API_PORT %d", c.Server.Port)
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetMetricsAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Metrics.Port)
}

// GetMongoURI возвращает MONGO_URI или собирает его из host/port/credentials
func (c *Config) GetMongoURI() string {
	if c.Mongo.URI != "" {
		return c.Mongo.URI
	}
	u := url.URL{
		Scheme: "mongodb",
		Host:   fmt.Sprintf("%s:%d", c.Mongo.Host, c.Mongo.Port),
	}
	if c.Mongo.User != "" {
		u.User = url.UserPassword(c.Mongo.User, c.Mongo.Password)
	}
	return u.String()
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
