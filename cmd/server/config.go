package main

import (
	"strings"
	"time"
)

type Config struct {
	Host               string        `env:"HOST,default=0.0.0.0"`
	Port               int           `env:"PORT,default=5000"`
	LogLevel           string        `env:"LOG_LEVEL,default=INFO"`
	BadgerFilepath     string        `env:"BADGER_FILEPATH,required=true"`
	UploadDir          string        `env:"UPLOAD_DIR,default=./uploads"`
	JWTSecret          string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration  time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	SendBufferSize     int           `env:"SEND_BUFFER_SIZE,default=256"`
	PresenceBufferSize int           `env:"PRESENCE_BUFFER_SIZE,default=1024"`
	LimitMessages      *int          `env:"LIMIT_MESSAGES"`
	BadgerGCInterval   time.Duration `env:"BADGER_GC_INTERVAL,default=5m"`
	AllowedOrigins     string        `env:"ALLOWED_ORIGINS"`
}

// Origins splits the comma-separated ALLOWED_ORIGINS list. Empty means
// every origin is accepted, which is only sensible in development.
func (c Config) Origins() []string {
	if c.AllowedOrigins == "" {
		return nil
	}
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
