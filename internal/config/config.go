// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrJWTSecretRequired is returned by Load when MEMORYBOX_JWT_SECRET is unset or empty.
var ErrJWTSecretRequired = errors.New("MEMORYBOX_JWT_SECRET is required")

// User is one configured login account.
type User struct {
	Username string
	Password string
}

// Cloudinary holds the media host account credentials and the optional
// destination folder for uploads.
type Cloudinary struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Config holds the application configuration loaded from environment variables.
// It is built once at startup and never mutated.
type Config struct {
	ListenAddr     string
	DBPath         string
	Users          []User
	JWTSecret      string
	TokenTTL       time.Duration
	Cloudinary     Cloudinary
	CORSOrigins    []string
	MaxUploadBytes int64
	LogLevel       slog.Level
	LogFormat      string
}

// LogValue summarizes the configuration for the startup log. Passwords and
// secrets are reported only as set or unset.
func (c *Config) LogValue() slog.Value {
	usernames := make([]string, 0, len(c.Users))
	for _, u := range c.Users {
		if u.Username != "" {
			usernames = append(usernames, u.Username)
		}
	}

	return slog.GroupValue(
		slog.String("listen_addr", c.ListenAddr),
		slog.String("db_path", c.DBPath),
		slog.Any("users", usernames),
		slog.Bool("jwt_secret_set", c.JWTSecret != ""),
		slog.Duration("token_ttl", c.TokenTTL),
		slog.String("cloudinary_cloud_name", c.Cloudinary.CloudName),
		slog.Bool("cloudinary_api_key_set", c.Cloudinary.APIKey != ""),
		slog.Bool("cloudinary_api_secret_set", c.Cloudinary.APISecret != ""),
		slog.String("cloudinary_folder", c.Cloudinary.Folder),
		slog.Any("cors_origins", c.CORSOrigins),
		slog.Int64("max_upload_bytes", c.MaxUploadBytes),
	)
}

// Load reads configuration from environment variables and returns a validated Config.
// MEMORYBOX_JWT_SECRET is required. Optional variables with defaults:
// MEMORYBOX_LISTEN_ADDR (127.0.0.1:5000), MEMORYBOX_DB_PATH (memorybox.db),
// MEMORYBOX_TOKEN_TTL (168h), MEMORYBOX_CORS_ORIGINS (*),
// MEMORYBOX_MAX_UPLOAD_BYTES (10485760), MEMORYBOX_LOG_LEVEL (info),
// MEMORYBOX_LOG_FORMAT (text). Account and Cloudinary variables, including
// MEMORYBOX_CLOUDINARY_FOLDER, default to empty.
func Load() (*Config, error) {
	secret := os.Getenv("MEMORYBOX_JWT_SECRET")
	if secret == "" {
		return nil, ErrJWTSecretRequired
	}

	listenAddr := "127.0.0.1:5000"
	if v, ok := os.LookupEnv("MEMORYBOX_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "memorybox.db"
	if v, ok := os.LookupEnv("MEMORYBOX_DB_PATH"); ok {
		dbPath = v
	}

	tokenTTL := 7 * 24 * time.Hour
	if v, ok := os.LookupEnv("MEMORYBOX_TOKEN_TTL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("MEMORYBOX_TOKEN_TTL has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("MEMORYBOX_TOKEN_TTL must be positive, got %q", v)
		}
		tokenTTL = parsed
	}

	maxUploadBytes := int64(10 << 20)
	if v, ok := os.LookupEnv("MEMORYBOX_MAX_UPLOAD_BYTES"); ok {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("MEMORYBOX_MAX_UPLOAD_BYTES has invalid integer %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("MEMORYBOX_MAX_UPLOAD_BYTES must be positive, got %q", v)
		}
		maxUploadBytes = parsed
	}

	corsOrigins := []string{"*"}
	if v, ok := os.LookupEnv("MEMORYBOX_CORS_ORIGINS"); ok && v != "" {
		corsOrigins = splitList(v)
	}

	logLevel := slog.LevelInfo
	if v, ok := os.LookupEnv("MEMORYBOX_LOG_LEVEL"); ok && v != "" {
		if err := logLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("MEMORYBOX_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	logFormat := "text"
	if v, ok := os.LookupEnv("MEMORYBOX_LOG_FORMAT"); ok && v != "" {
		v = strings.ToLower(v)
		if v != "text" && v != "json" {
			return nil, fmt.Errorf("MEMORYBOX_LOG_FORMAT must be text or json, got %q", v)
		}
		logFormat = v
	}

	return &Config{
		ListenAddr: listenAddr,
		DBPath:     dbPath,
		Users: []User{
			{Username: os.Getenv("MEMORYBOX_USER1_USERNAME"), Password: os.Getenv("MEMORYBOX_USER1_PASSWORD")},
			{Username: os.Getenv("MEMORYBOX_USER2_USERNAME"), Password: os.Getenv("MEMORYBOX_USER2_PASSWORD")},
		},
		JWTSecret: secret,
		TokenTTL:  tokenTTL,
		Cloudinary: Cloudinary{
			CloudName: os.Getenv("MEMORYBOX_CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("MEMORYBOX_CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("MEMORYBOX_CLOUDINARY_API_SECRET"),
			Folder:    os.Getenv("MEMORYBOX_CLOUDINARY_FOLDER"),
		},
		CORSOrigins:    corsOrigins,
		MaxUploadBytes: maxUploadBytes,
		LogLevel:       logLevel,
		LogFormat:      logFormat,
	}, nil
}

// LoadDotEnv loads the first .env file found in dir or its parent into the
// process environment. Variables already set in the environment win. Returns
// the path loaded, or "" when no file exists.
func LoadDotEnv(dir string) (string, error) {
	candidates := []string{
		filepath.Join(dir, ".env"),
		filepath.Join(filepath.Dir(dir), ".env"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return "", fmt.Errorf("load %s: %w", path, err)
		}
		return path, nil
	}

	return "", nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}
