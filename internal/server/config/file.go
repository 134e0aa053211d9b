package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/attendance/internal/flagx"
	"github.com/dmitrijs2005/attendance/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk form of Config. Durations accept both "30s"
// strings and integer nanoseconds. Zero values leave the current setting
// untouched.
type FileConfig struct {
	ListenAddr         string         `json:"listen_addr" yaml:"listen_addr"`
	DatabaseDriver     string         `json:"database_driver" yaml:"database_driver"`
	DatabaseDSN        string         `json:"database_dsn" yaml:"database_dsn"`
	DBHost             string         `json:"db_host" yaml:"db_host"`
	DBPort             int            `json:"db_port" yaml:"db_port"`
	DBUser             string         `json:"db_user" yaml:"db_user"`
	DBPassword         string         `json:"db_password" yaml:"db_password"`
	DBName             string         `json:"db_name" yaml:"db_name"`
	JWTSecret          string         `json:"jwt_secret" yaml:"jwt_secret"`
	TokenTTL           timex.Duration `json:"token_ttl" yaml:"token_ttl"`
	CORSAllowedOrigins []string       `json:"cors_allowed_origins" yaml:"cors_allowed_origins"`
	PasswordHasher     string         `json:"password_hasher" yaml:"password_hasher"`
	BcryptCost         int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	RequestTimeout     timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	DBMaxOpenConns     int            `json:"db_max_open_conns" yaml:"db_max_open_conns"`
	DBMaxIdleConns     int            `json:"db_max_idle_conns" yaml:"db_max_idle_conns"`
	DBConnMaxLifetime  timex.Duration `json:"db_conn_max_lifetime" yaml:"db_conn_max_lifetime"`
	DBConnectRetries   uint64         `json:"db_connect_retries" yaml:"db_connect_retries"`
	LogFormat          string         `json:"log_format" yaml:"log_format"`
	GinMode            string         `json:"gin_mode" yaml:"gin_mode"`
}

// parseFile loads the file named by -c/-config, if any.
func parseFile(config *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}
	return loadFile(config, path)
}

// loadFile reads path as YAML when it ends in .yml/.yaml and as JSON otherwise.
func loadFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(config)
	return nil
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.ListenAddr, fc.ListenAddr)
	setString(&c.DatabaseDriver, fc.DatabaseDriver)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.DBHost, fc.DBHost)
	setString(&c.DBUser, fc.DBUser)
	setString(&c.DBPassword, fc.DBPassword)
	setString(&c.DBName, fc.DBName)
	setString(&c.JWTSecret, fc.JWTSecret)
	setString(&c.PasswordHasher, fc.PasswordHasher)
	setString(&c.LogFormat, fc.LogFormat)
	setString(&c.GinMode, fc.GinMode)

	if fc.DBPort != 0 {
		c.DBPort = fc.DBPort
	}
	if fc.BcryptCost != 0 {
		c.BcryptCost = fc.BcryptCost
	}
	if fc.DBMaxOpenConns != 0 {
		c.DBMaxOpenConns = fc.DBMaxOpenConns
	}
	if fc.DBMaxIdleConns != 0 {
		c.DBMaxIdleConns = fc.DBMaxIdleConns
	}
	if fc.DBConnectRetries != 0 {
		c.DBConnectRetries = fc.DBConnectRetries
	}
	if fc.TokenTTL.Duration != 0 {
		c.TokenTTL = fc.TokenTTL.Duration
	}
	if fc.RequestTimeout.Duration != 0 {
		c.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.DBConnMaxLifetime.Duration != 0 {
		c.DBConnMaxLifetime = fc.DBConnMaxLifetime.Duration
	}
	if len(fc.CORSAllowedOrigins) > 0 {
		c.CORSAllowedOrigins = fc.CORSAllowedOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
