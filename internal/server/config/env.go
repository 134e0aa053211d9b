package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type lookupFunc func(key string) (string, bool)

var lookupEnv lookupFunc = os.LookupEnv

// loadDotEnv exports the variables of path into the process environment.
// Variables that are already set win. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// parseEnv overlays environment variables. PORT sets the listen port on all
// interfaces; LISTEN_ADDR, when also present, takes precedence.
func parseEnv(c *Config, lookup lookupFunc) error {
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			errs = append(errs, fmt.Errorf("PORT: %w", err))
		} else {
			c.ListenAddr = ":" + v
		}
	}
	str("LISTEN_ADDR", &c.ListenAddr)
	str("DATABASE_DRIVER", &c.DatabaseDriver)
	str("DATABASE_DSN", &c.DatabaseDSN)
	str("DB_HOST", &c.DBHost)
	num("DB_PORT", &c.DBPort)
	str("DB_USER", &c.DBUser)
	str("DB_PASSWORD", &c.DBPassword)
	str("DB_NAME", &c.DBName)
	str("JWT_SECRET", &c.JWTSecret)
	dur("TOKEN_TTL", &c.TokenTTL)
	str("PASSWORD_HASHER", &c.PasswordHasher)
	num("BCRYPT_COST", &c.BcryptCost)
	dur("REQUEST_TIMEOUT", &c.RequestTimeout)
	num("DB_MAX_OPEN_CONNS", &c.DBMaxOpenConns)
	num("DB_MAX_IDLE_CONNS", &c.DBMaxIdleConns)
	dur("DB_CONN_MAX_LIFETIME", &c.DBConnMaxLifetime)
	str("LOG_FORMAT", &c.LogFormat)
	str("GIN_MODE", &c.GinMode)

	if v, ok := lookup("DB_CONNECT_RETRIES"); ok && v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("DB_CONNECT_RETRIES: %w", err))
		} else {
			c.DBConnectRetries = n
		}
	}
	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok && v != "" {
		c.CORSAllowedOrigins = splitList(v)
	}

	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
