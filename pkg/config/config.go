package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	NATS     NATSConfig // execution enqueued events
	Redis    RedisConfig
	JWT      JWTConfig
	Log      LogConfig
	Catalog  CatalogConfig
	Authz    AuthzConfig
	Monitor  MonitorConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Env         string
	CORSOrigins string // comma separated
}

type DatabaseConfig struct {
	Driver   string // postgres, sqlite
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string // sqlite file path
}

// NATSConfig configuration สำหรับ NATS JetStream
type NATSConfig struct {
	URL string // nats://localhost:4222, empty = disabled
}

// RedisConfig สำหรับ cache schedule lookups
type RedisConfig struct {
	URL         string // redis://localhost:6379, empty = disabled
	Password    string
	DB          int
	ScheduleTTL time.Duration
}

type JWTConfig struct {
	Secret     string
	CookieName string
}

type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	Output     string // stdout, file, both
	FilePath   string // logs/app.log
	MaxSize    int    // MB
	MaxBackups int    // จำนวน backup files
	MaxAge     int    // วัน
	Compress   bool   // บีบอัด backup
}

// CatalogConfig ตำแหน่งของ task manifest
type CatalogConfig struct {
	ManifestPath string
	Watch        bool
}

type AuthzConfig struct {
	PermissionsFile string // YAML, empty = built-in admin defaults
}

// MonitorConfig สำหรับ queue monitor (log only)
type MonitorConfig struct {
	Cron       string
	StaleAfter time.Duration
}

func LoadConfig() (*Config, error) {
	// ไม่ error ถ้าไม่มี .env file (ใช้ environment variables แทน)
	_ = godotenv.Load()

	logMaxSize, _ := strconv.Atoi(getEnv("LOG_MAX_SIZE", "100"))
	logMaxBackups, _ := strconv.Atoi(getEnv("LOG_MAX_BACKUPS", "5"))
	logMaxAge, _ := strconv.Atoi(getEnv("LOG_MAX_AGE", "30"))
	logCompress := getEnv("LOG_COMPRESS", "true") == "true"

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Job Core"),
			Port:        getEnv("APP_PORT", "8080"),
			Env:         getEnv("APP_ENV", "development"),
			CORSOrigins: getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "job_core"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			Path:     getEnv("DB_PATH", "data/job_core.db"),
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", ""),
		},
		Redis: RedisConfig{
			URL:         getEnv("REDIS_URL", ""),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          redisDB,
			ScheduleTTL: getDuration("SCHEDULE_CACHE_TTL", 5*time.Minute),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "your-secret-key"),
			CookieName: getEnv("AUTH_COOKIE_NAME", "hit_token"),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			FilePath:   getEnv("LOG_FILE", "logs/app.log"),
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
			Compress:   logCompress,
		},
		Catalog: CatalogConfig{
			ManifestPath: getEnv("TASKS_MANIFEST_PATH", ".hit/generated/hit_tasks_manifest.json"),
			Watch:        getEnv("TASKS_MANIFEST_WATCH", "true") == "true",
		},
		Authz: AuthzConfig{
			PermissionsFile: getEnv("PERMISSIONS_FILE", ""),
		},
		Monitor: MonitorConfig{
			Cron:       getEnv("QUEUE_MONITOR_CRON", "@every 1m"),
			StaleAfter: getDuration("QUEUE_STALE_AFTER", 15*time.Minute),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

// getDuration อ่านค่า duration เช่น "15m", "90s"
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

// IsDevelopment ตรวจสอบว่าเป็น development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction ตรวจสอบว่าเป็น production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
