// Package config handles configuration for the server component,
// including defaults, a JSON or YAML file overlay, environment variables
// (optionally from a .env file) and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/attendance/internal/dbx"
	"github.com/dmitrijs2005/attendance/internal/logging"
	"github.com/dmitrijs2005/attendance/internal/server/auth"
	"github.com/dmitrijs2005/attendance/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the attendance server.
//
// Fields:
//   - ListenAddr: bind address for the HTTP endpoint.
//   - DatabaseDriver: "pgx" (PostgreSQL) or "sqlite".
//   - DatabaseDSN: full DSN; when empty it is built from the DB* parts.
//   - JWTSecret: HMAC secret for signing access tokens. Required.
//   - TokenTTL: access token lifetime.
//   - PasswordHasher / BcryptCost: password hashing algorithm and bcrypt cost.
//   - DBMaxOpenConns / DBMaxIdleConns / DBConnMaxLifetime: pool bounds.
//   - DBConnectRetries: extra ping attempts at startup.
type Config struct {
	ListenAddr         string
	DatabaseDriver     string
	DatabaseDSN        string
	DBHost             string
	DBPort             int
	DBUser             string
	DBPassword         string
	DBName             string
	JWTSecret          string
	TokenTTL           time.Duration
	CORSAllowedOrigins []string
	PasswordHasher     string
	BcryptCost         int
	RequestTimeout     time.Duration
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	DBConnMaxLifetime  time.Duration
	DBConnectRetries   uint64
	LogFormat          string
	GinMode            string
}

// LoadDefaults populates Config with development defaults. There is no
// default signing secret.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":3000"
	c.DatabaseDriver = repomanager.DriverPostgres
	c.DBHost = "localhost"
	c.DBPort = 5432
	c.DBUser = "postgres"
	c.DBName = "attendance_db"
	c.TokenTTL = auth.DefaultTokenTTL
	c.CORSAllowedOrigins = []string{"http://127.0.0.1:5500"}
	c.PasswordHasher = auth.AlgorithmBcrypt
	c.RequestTimeout = 10 * time.Second
	c.DBMaxOpenConns = 10
	c.DBMaxIdleConns = 5
	c.DBConnMaxLifetime = 30 * time.Minute
	c.DBConnectRetries = 5
	c.LogFormat = logging.FormatJSON
	c.GinMode = "release"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional config file, the environment and finally command-line
// flags. The result is validated.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg); err != nil {
		return nil, err
	}
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, lookupEnv); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT secret is not set"))
	}
	if _, err := c.DSN(); err != nil {
		errs = append(errs, err)
	}
	switch c.PasswordHasher {
	case auth.AlgorithmBcrypt, auth.AlgorithmArgon2id:
	default:
		errs = append(errs, fmt.Errorf("unknown password hasher %q", c.PasswordHasher))
	}
	if c.BcryptCost != 0 && (c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost) {
		errs = append(errs, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}
	switch c.LogFormat {
	case logging.FormatJSON, logging.FormatText, logging.FormatZap:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	for _, o := range c.CORSAllowedOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			errs = append(errs, fmt.Errorf("bad CORS origin %q", o))
		}
	}
	if c.TokenTTL < 0 {
		errs = append(errs, errors.New("token TTL must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// DSN returns DatabaseDSN, or builds one from the DB* parts for the
// configured driver.
func (c *Config) DSN() (string, error) {
	switch c.DatabaseDriver {
	case repomanager.DriverPostgres:
		if c.DatabaseDSN != "" {
			return c.DatabaseDSN, nil
		}
		if c.DBHost == "" || c.DBName == "" {
			return "", errors.New("cannot build postgres DSN: DB_HOST and DB_NAME are required")
		}
		u := url.URL{
			Scheme:   "postgres",
			Host:     c.DBHost,
			Path:     "/" + c.DBName,
			RawQuery: "sslmode=disable",
		}
		if c.DBPort != 0 {
			u.Host = c.DBHost + ":" + strconv.Itoa(c.DBPort)
		}
		if c.DBUser != "" {
			if c.DBPassword != "" {
				u.User = url.UserPassword(c.DBUser, c.DBPassword)
			} else {
				u.User = url.User(c.DBUser)
			}
		}
		return u.String(), nil
	case repomanager.DriverSQLite:
		if c.DatabaseDSN != "" {
			return c.DatabaseDSN, nil
		}
		if c.DBName == "" {
			return "", errors.New("cannot build sqlite DSN: DB_NAME is required")
		}
		return c.DBName, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
}

// PoolOptions returns the connection pool settings. SQLite allows a single
// writer, so its pool is capped at one connection.
func (c *Config) PoolOptions() dbx.PoolOptions {
	opts := dbx.PoolOptions{
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
		ConnectRetries:  c.DBConnectRetries,
	}
	if c.DatabaseDriver == repomanager.DriverSQLite {
		opts.MaxOpenConns = 1
		opts.MaxIdleConns = 1
	}
	return opts
}
