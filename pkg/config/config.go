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
	NATS     NATSConfig // content events (JetStream)
	Redis    RedisConfig
	JWT      JWTConfig
	Log      LogConfig
	Storage  StorageConfig
	Trash    TrashConfig
	Cache    CacheConfig
}

// RedisConfig สำหรับ permission cache
type RedisConfig struct {
	URL      string // redis://localhost:6379
	Password string
	DB       int
	Enabled  bool // false = ใช้ cache ใน memory แทน
}

type AppConfig struct {
	Name        string
	Port        string
	Env         string
	CORSOrigins string // comma-separated, "*" = ทุก origin
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	LogLevel string // silent, error, warn, info

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NATSConfig configuration สำหรับ NATS JetStream
type NATSConfig struct {
	URL     string // nats://localhost:4222
	Enabled bool   // false = ไม่ publish content events
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
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

type StorageConfig struct {
	Type          string // local, s3
	BasePath      string // สำหรับ local: ./uploads
	BaseURL       string // URL สำหรับเข้าถึงไฟล์ (เช่น http://localhost:8080/files)
	MaxUploadSize int64  // ขนาดสูงสุดของรูป cover (bytes)

	// S3-Compatible Storage (MinIO / Cloudflare R2)
	S3 S3Config
}

type S3Config struct {
	Endpoint  string // minio:9000 หรือ xxx.r2.cloudflarestorage.com
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool   // false สำหรับ MinIO local, true สำหรับ R2
	Region    string // auto สำหรับ R2
	PublicURL string // URL สำหรับเข้าถึงไฟล์ public (optional)
}

// TrashConfig กำหนดการลบถาวรของที่อยู่ในถังขยะ
type TrashConfig struct {
	PurgeCron string        // cron expression, ว่าง = ปิด job
	Retention time.Duration // เก็บในถังขยะนานเท่าไหร่ก่อนลบถาวร
}

type CacheConfig struct {
	PermissionTTL time.Duration
}

func LoadConfig() (*Config, error) {
	// ไม่ error ถ้าไม่มี .env file (ใช้ environment variables แทน)
	_ = godotenv.Load()

	logMaxSize := getEnvInt("LOG_MAX_SIZE", 100)
	logMaxBackups := getEnvInt("LOG_MAX_BACKUPS", 5)
	logMaxAge := getEnvInt("LOG_MAX_AGE", 30)
	logCompress := getEnv("LOG_COMPRESS", "true") == "true"

	maxUploadSize, _ := strconv.ParseInt(getEnv("STORAGE_MAX_UPLOAD_SIZE", "10485760"), 10, 64) // 10MB default
	s3UseSSL := getEnv("S3_USE_SSL", "false") == "true"

	retentionDays := getEnvInt("TRASH_RETENTION_DAYS", 30)

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "GoFiber CMS"),
			Port:        getEnv("APP_PORT", "8080"),
			Env:         getEnv("APP_ENV", "development"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			DBName:          getEnv("DB_NAME", "cms"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			LogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Enabled: getEnv("NATS_ENABLED", "true") == "true",
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Enabled:  getEnv("REDIS_ENABLED", "true") == "true",
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key"),
			TTL:    getEnvDuration("JWT_TTL", 24*time.Hour),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "both"),
			FilePath:   getEnv("LOG_FILE", "logs/app.log"),
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
			Compress:   logCompress,
		},
		Storage: StorageConfig{
			Type:          getEnv("STORAGE_TYPE", "local"),
			BasePath:      getEnv("STORAGE_BASE_PATH", "./uploads"),
			BaseURL:       getEnv("STORAGE_BASE_URL", "http://localhost:8080/files"),
			MaxUploadSize: maxUploadSize,
			S3: S3Config{
				Endpoint:  getEnv("S3_ENDPOINT", "localhost:9000"),
				AccessKey: getEnv("S3_ACCESS_KEY", "minioadmin"),
				SecretKey: getEnv("S3_SECRET_KEY", "minioadmin"),
				Bucket:    getEnv("S3_BUCKET", "cms"),
				UseSSL:    s3UseSSL,
				Region:    getEnv("S3_REGION", "auto"),
				PublicURL: getEnv("S3_PUBLIC_URL", ""),
			},
		},
		Trash: TrashConfig{
			PurgeCron: getEnv("TRASH_PURGE_CRON", "0 3 * * *"), // ทุกวันตี 3
			Retention: time.Duration(retentionDays) * 24 * time.Hour,
		},
		Cache: CacheConfig{
			PermissionTTL: getEnvDuration("PERMISSION_CACHE_TTL", 5*time.Minute),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvDuration รับค่าแบบ time.ParseDuration เช่น "5m", "24h"
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return d
}

// AllowedOrigins แปลง CORS_ORIGINS เป็น slice
func (c *AppConfig) AllowedOrigins() []string {
	var origins []string
	for _, p := range strings.Split(c.CORSOrigins, ",") {
		if o := strings.TrimSpace(p); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// IsDevelopment ตรวจสอบว่าเป็น development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction ตรวจสอบว่าเป็น production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
