package config

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Port          string
	BindAddress   string
	LogMode       string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	JWTSecret     string
	CORSOrigins   []string

	QuestionSetTTL     time.Duration
	UserPerformanceTTL time.Duration
	AdminStatsTTL      time.Duration
}

var defaults = map[string]any{
	"port":                 "8080",
	"bind_address":         "",
	"log_mode":             "development",
	"db_host":              "localhost",
	"db_port":              "5432",
	"db_user":              "skillcheck",
	"db_password":          "skillcheck",
	"db_name":              "skillcheck",
	"redis_host":           "localhost",
	"redis_port":           "6379",
	"redis_password":       "",
	"jwt_secret":           "",
	"cors_origins":         []string{"http://localhost:3000", "http://localhost:5173", "http://127.0.0.1:3000", "http://127.0.0.1:5173"},
	"question_set_ttl":     time.Hour,
	"user_performance_ttl": 10 * time.Minute,
	"admin_stats_ttl":      5 * time.Minute,
}

// Load reads configuration from an optional config.yaml (./ or ./configs) and the
// environment. Environment variables use the upper-cased key, e.g. DB_HOST.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	questionSetTTL, err := durationSetting(v, "question_set_ttl")
	if err != nil {
		return nil, err
	}
	userPerformanceTTL, err := durationSetting(v, "user_performance_ttl")
	if err != nil {
		return nil, err
	}
	adminStatsTTL, err := durationSetting(v, "admin_stats_ttl")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:               v.GetString("port"),
		BindAddress:        v.GetString("bind_address"),
		LogMode:            v.GetString("log_mode"),
		DBHost:             v.GetString("db_host"),
		DBPort:             v.GetString("db_port"),
		DBUser:             v.GetString("db_user"),
		DBPassword:         v.GetString("db_password"),
		DBName:             v.GetString("db_name"),
		RedisHost:          v.GetString("redis_host"),
		RedisPort:          v.GetString("redis_port"),
		RedisPassword:      v.GetString("redis_password"),
		JWTSecret:          v.GetString("jwt_secret"),
		CORSOrigins:        originsSetting(v, "cors_origins"),
		QuestionSetTTL:     questionSetTTL,
		UserPerformanceTTL: userPerformanceTTL,
		AdminStatsTTL:      adminStatsTTL,
	}
	return cfg, nil
}

// originsSetting accepts a list or a comma-separated string such as
// CORS_ORIGINS="http://a.test, http://b.test".
func originsSetting(v *viper.Viper, key string) []string {
	raw := v.GetStringSlice(key)
	if s, ok := v.Get(key).(string); ok {
		raw = strings.Split(s, ",")
	}
	origins := make([]string, 0, len(raw))
	for _, o := range raw {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// durationSetting reads a Go duration ("90s", "1h"). A bare integer is a
// number of seconds.
func durationSetting(v *viper.Viper, key string) (time.Duration, error) {
	switch val := v.Get(key).(type) {
	case time.Duration:
		return val, nil
	case int:
		return time.Duration(val) * time.Second, nil
	case int64:
		return time.Duration(val) * time.Second, nil
	case string:
		s := strings.TrimSpace(val)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.Duration(n) * time.Second, nil
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return d, nil
	default:
		return 0, fmt.Errorf("%s: unsupported duration %v", key, val)
	}
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.QuestionSetTTL <= 0 || c.UserPerformanceTTL <= 0 || c.AdminStatsTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	return nil
}

func (c *Config) ListenAddr() string {
	return c.BindAddress + ":" + c.Port
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// InitRedis builds the client and pings it. A failed ping is returned so the
// caller can decide to start anyway; the cache is never a source of truth.
func InitRedis(ctx context.Context, cfg *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password:    cfg.RedisPassword,
		DB:          0,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return client, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
