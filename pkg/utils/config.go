package utils

import (
	"os"
	"strconv"
	"time"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("GENHUB_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("GENHUB_JWT_ISSUER")
	if issuer == "" {
		issuer = "genhub"
	}

	duration := 168 * time.Hour // one week, matches the web client session length
	if ttl := os.Getenv("GENHUB_JWT_TTL_HOURS"); ttl != "" {
		if hours, err := strconv.Atoi(ttl); err == nil && hours > 0 {
			duration = time.Duration(hours) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: duration,
	}
}

type ServerConfig struct {
	HTTPAddr string
	SyncAddr string // TCP tree-event feed
	UDPAddr  string // UDP notification fan-out
}

func LoadServerConfig() ServerConfig {
	return ServerConfig{
		HTTPAddr: envOr("GENHUB_HTTP_ADDR", ":8080"),
		SyncAddr: envOr("GENHUB_SYNC_ADDR", ":7070"),
		UDPAddr:  envOr("GENHUB_UDP_ADDR", ":7071"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
