// Package config loads settings from struct defaults, an optional YAML file and the
// environment, in increasing priority.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"obiabedidi/validation"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const PathEnvVar = "CONFIG_PATH"

type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Log        LogConfig        `koanf:"log"`
	Mongo      MongoConfig      `koanf:"mongo"`
	Redis      RedisConfig      `koanf:"redis"`
	Storage    StorageConfig    `koanf:"storage"`
	Cloudinary CloudinaryConfig `koanf:"cloudinary"`
	Auth       AuthConfig       `koanf:"auth"`
}

type ServerConfig struct {
	Port string `koanf:"port" validate:"required"`
	// SiteURL is the public address of the web app, printed on recipe cards.
	SiteURL         string        `koanf:"site_url" validate:"required,url"`
	CORSOrigins     []string      `koanf:"cors_origins" validate:"min=1"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// MongoConfig: an empty URI selects the in-memory store.
type MongoConfig struct {
	URI      string `koanf:"uri"`
	Database string `koanf:"database" validate:"required"`
}

// RedisConfig: an empty Addr disables view buffering and Redis-backed logout.
type RedisConfig struct {
	Addr          string        `koanf:"addr"`
	Password      string        `koanf:"password"`
	DB            int           `koanf:"db" validate:"min=0"`
	FlushInterval time.Duration `koanf:"flush_interval" validate:"gt=0"`
}

type StorageConfig struct {
	Backend string `koanf:"backend" validate:"oneof=local s3"`

	LocalDir     string `koanf:"local_dir" validate:"required_if=Backend local"`
	LocalBaseURL string `koanf:"local_base_url" validate:"required_if=Backend local"`

	S3Bucket    string `koanf:"s3_bucket" validate:"required_if=Backend s3"`
	S3Region    string `koanf:"s3_region" validate:"required_if=Backend s3"`
	S3Endpoint  string `koanf:"s3_endpoint" validate:"omitempty,url"`
	S3AccessKey string `koanf:"s3_access_key"`
	S3SecretKey string `koanf:"s3_secret_key"`
	S3PublicURL string `koanf:"s3_public_url" validate:"omitempty,url"`
	S3PathStyle bool   `koanf:"s3_path_style"`
}

// CloudinaryConfig: an empty CloudName disables /api/uploads/image.
type CloudinaryConfig struct {
	CloudName    string        `koanf:"cloud_name"`
	UploadPreset string        `koanf:"upload_preset" validate:"required_with=CloudName"`
	APIKey       string        `koanf:"api_key"`
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"`
}

type AuthConfig struct {
	JWTSecret          string        `koanf:"jwt_secret" validate:"required,min=16"`
	TokenTTL           time.Duration `koanf:"token_ttl" validate:"gt=0"`
	GoogleClientID     string        `koanf:"google_client_id"`
	GoogleClientSecret string        `koanf:"google_client_secret" validate:"required_with=GoogleClientID"`
	GoogleRedirectURL  string        `koanf:"google_redirect_url" validate:"required_with=GoogleClientID"`
	CookieSecure       bool          `koanf:"cookie_secure"`
}

func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			SiteURL:         "http://localhost:3000",
			CORSOrigins:     []string{"http://localhost:3000"},
			ShutdownTimeout: 10 * time.Second,
		},
		Log:   LogConfig{Level: "info", Format: "json"},
		Mongo: MongoConfig{Database: "obiabedidi"},
		Redis: RedisConfig{FlushInterval: 30 * time.Second},
		Storage: StorageConfig{
			Backend:      "local",
			LocalDir:     "static/uploads",
			LocalBaseURL: "http://localhost:8080/static/uploads",
		},
		Cloudinary: CloudinaryConfig{Timeout: 30 * time.Second},
		Auth: AuthConfig{
			TokenTTL:     24 * time.Hour,
			CookieSecure: true,
		},
	}
}

// envKeys maps environment variable names onto config paths. Unlisted variables are ignored.
var envKeys = map[string]string{
	"PORT":                     "server.port",
	"SITE_URL":                 "server.site_url",
	"CORS_ORIGINS":             "server.cors_origins",
	"SHUTDOWN_TIMEOUT":         "server.shutdown_timeout",
	"LOG_LEVEL":                "log.level",
	"LOG_FORMAT":               "log.format",
	"MONGODB_URI":              "mongo.uri",
	"MONGODB_DATABASE":         "mongo.database",
	"REDIS_URL":                "redis.addr",
	"REDIS_PASSWORD":           "redis.password",
	"REDIS_DB":                 "redis.db",
	"VIEW_FLUSH_INTERVAL":      "redis.flush_interval",
	"STORAGE_BACKEND":          "storage.backend",
	"UPLOAD_DIR":               "storage.local_dir",
	"PUBLIC_BASE_URL":          "storage.local_base_url",
	"S3_BUCKET":                "storage.s3_bucket",
	"S3_REGION":                "storage.s3_region",
	"S3_ENDPOINT":              "storage.s3_endpoint",
	"S3_ACCESS_KEY":            "storage.s3_access_key",
	"S3_SECRET_KEY":            "storage.s3_secret_key",
	"S3_PUBLIC_URL":            "storage.s3_public_url",
	"S3_PATH_STYLE":            "storage.s3_path_style",
	"CLOUDINARY_CLOUD_NAME":    "cloudinary.cloud_name",
	"CLOUDINARY_UPLOAD_PRESET": "cloudinary.upload_preset",
	"CLOUDINARY_API_KEY":       "cloudinary.api_key",
	"CLOUDINARY_TIMEOUT":       "cloudinary.timeout",
	"JWT_SECRET":               "auth.jwt_secret",
	"ACCESS_TOKEN_TTL":         "auth.token_ttl",
	"GOOGLE_CLIENT_ID":         "auth.google_client_id",
	"GOOGLE_CLIENT_SECRET":     "auth.google_client_secret",
	"GOOGLE_REDIRECT_URL":      "auth.google_redirect_url",
	"COOKIE_SECURE":            "auth.cookie_secure",
}

func envKey(name string) string {
	return envKeys[name]
}

// Load layers defaults, the YAML file at path (skipped when path is empty) and the
// environment, then validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Server.Port = strings.TrimPrefix(cfg.Server.Port, ":")
	if err := validation.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Path returns $CONFIG_PATH, or config.yaml when it exists, or "".
func Path() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}
	return ""
}

func (c ServerConfig) Addr() string { return ":" + c.Port }
