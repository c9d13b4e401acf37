// internal/config/config.go
//
// Environment-driven configuration shared by the server and the terminal
// front end. A .env file is loaded first when present (development).
//
// Keys (defaults in parentheses):
//   PORT (5175), LOG_LEVEL (info), DB_PATH (./data/twistle.db),
//   THEMES_FILE, THEMES_URL, THEME_LOAD_TIMEOUT (10s), TWISTLE_RANDOM_MODE,
//   WORD_TIME_LIMIT (30), SHUFFLE_LIMIT (2), TIME_BOOST (15), AUTO_HINT_AT (10),
//   JWT_SECRET, JWT_EXPIRES_DAYS (14), COOKIE_NAME (twistle_token),
//   CLIENT_ORIGIN, NODE_ENV, TWISTLE_LOG_FILE.
//
// SHUFFLE_LIMIT, TIME_BOOST and AUTO_HINT_AT switch their feature off when
// set to 0 (or any negative number).

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/twistle/internal/game"
)

// Config is the resolved process configuration.
type Config struct {
	Port         string
	LogLevel     string
	LogFile      string
	DBPath       string
	ThemeTimeout time.Duration
	Game         game.Config

	JWTSecret    string
	JWTTTL       time.Duration
	CookieName   string
	ClientOrigin string
	Production   bool
}

// Load reads .env (if any) and then the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() Config {
	return Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      os.Getenv("TWISTLE_LOG_FILE"),
		DBPath:       getEnv("DB_PATH", "./data/twistle.db"),
		ThemeTimeout: envDuration("THEME_LOAD_TIMEOUT", 10*time.Second),
		Game: game.Config{
			WordTime:     envInt("WORD_TIME_LIMIT", 30),
			ShuffleLimit: envLimit("SHUFFLE_LIMIT", 2),
			TimeBoost:    envLimit("TIME_BOOST", 15),
			AutoHintAt:   envLimit("AUTO_HINT_AT", 10),
			RandomMode:   envBool("TWISTLE_RANDOM_MODE", false),
		},
		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTTTL:       time.Duration(envInt("JWT_EXPIRES_DAYS", 14)) * 24 * time.Hour,
		CookieName:   getEnv("COOKIE_NAME", "twistle_token"),
		ClientOrigin: os.Getenv("CLIENT_ORIGIN"),
		Production:   os.Getenv("NODE_ENV") == "production",
	}
}

// SetupLogging applies LOG_LEVEL to the global zerolog logger.
func (c Config) SetupLogging() {
	if lvl, err := zerolog.ParseLevel(c.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", c.LogLevel).Msg("unknown LOG_LEVEL, keeping default")
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
	}
	return def
}

// envLimit reads an optional game feature. game.Config treats 0 as "use the
// default" and negatives as off, so an explicit 0 here becomes -1.
func envLimit(k string, def int) int {
	if n := envInt(k, def); n > 0 {
		return n
	}
	return -1
}

func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

// envDuration accepts Go durations ("15s") or plain seconds ("15").
func envDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
