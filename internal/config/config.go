package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath         string
	Addr           string
	TrustedProxies []string
	AllowedOrigins []string
	StaticDir      string
	LogLevel       slog.Level
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists. Variables already set win over the file.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		DBPath:         env("DB_PATH", "kickelo.db"),
		Addr:           env("ADDR", ":8080"),
		TrustedProxies: splitList(env("TRUSTED_PROXIES", "127.0.0.1,::1")),
		AllowedOrigins: splitList(env("ALLOWED_ORIGINS", "*")),
		StaticDir:      env("STATIC_DIR", "dist"),
		LogLevel:       parseLevel(env("LOG_LEVEL", "info")),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// splitList splits a comma separated value, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}
