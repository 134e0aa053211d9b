package config

import (
	"flag"
	"io"
	"os"

	"github.com/dmitrijs2005/attendance/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":3000")
//	-driver       database driver ("pgx" or "sqlite")
//	-d string     database DSN
//	-s string     JWT HMAC secret
//	-t duration   access token lifetime (e.g., "1h")
//	-l string     log format: json, text or zap
//
// os.Args is filtered first with flagx.FilterArgs so -c/-config and foreign
// flags do not trip the parser.
func parseFlags(config *Config) error {
	return parseArgs(config, os.Args[1:])
}

func parseArgs(config *Config, argv []string) error {
	args := flagx.FilterArgs(argv, []string{"-a", "-driver", "-d", "-s", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDriver, "driver", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "JWT secret")
	fs.DurationVar(&config.TokenTTL, "t", config.TokenTTL, "access token lifetime")
	fs.StringVar(&config.LogFormat, "l", config.LogFormat, "log format")

	return fs.Parse(args)
}
