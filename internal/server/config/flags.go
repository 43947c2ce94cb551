package config

import (
	"flag"
	"io"

	"github.com/logicspark/logicspark/internal/flagx"
)

// parseFlags applies command-line flags on top of config.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g. ":5000")
//	-g string     gRPC health bind address, "" disables
//	-d string     PostgreSQL DSN
//	-s string     JWT HMAC secret key
//	-t duration   user token lifetime
//	-m duration   admin token lifetime
//
// Other arguments (including -c and -env) are filtered out first.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-s", "-t", "-m"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run the HTTP server")
	fs.StringVar(&config.GRPCHealthAddr, "g", config.GRPCHealthAddr, "address of the gRPC health service")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "JWT secret key")
	fs.DurationVar(&config.UserTokenTTL, "t", config.UserTokenTTL, "user token lifetime")
	fs.DurationVar(&config.AdminTokenTTL, "m", config.AdminTokenTTL, "admin token lifetime")

	return fs.Parse(args)
}
