package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// loadDotEnv merges a dotenv file into the process environment. Variables
// already present in the environment win. A missing default file is ignored;
// a missing explicitly named file is an error.
func loadDotEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// parseEnv overlays the variables understood by the original deployment
// (PORT, DATABASE_URL, JWT_SECRET, EMAIL_USER, ...) onto config.
func parseEnv(config *Config, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) error {
		v, ok := lookup(name)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = d
		return nil
	}
	num := func(name string, dst *int) error {
		v, ok := lookup(name)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = n
		return nil
	}

	str("APP_ENV", &config.Environment)
	str("NODE_ENV", &config.Environment)
	str("LOG_LEVEL", &config.LogLevel)
	str("LOG_FORMAT", &config.LogFormat)

	if port, ok := lookup("PORT"); ok && port != "" {
		if strings.Contains(port, ":") {
			config.HTTPAddr = port
		} else {
			config.HTTPAddr = ":" + port
		}
	}
	str("HTTP_ADDR", &config.HTTPAddr)
	str("GRPC_HEALTH_ADDR", &config.GRPCHealthAddr)
	if origins, ok := lookup("CORS_ORIGINS"); ok && origins != "" {
		config.AllowedOrigins = splitList(origins)
	}

	str("DATABASE_URL", &config.DatabaseDSN)
	str("JWT_SECRET", &config.SecretKey)

	str("SMTP_HOST", &config.SMTPHost)
	str("EMAIL_USER", &config.SMTPUser)
	str("EMAIL_PASS", &config.SMTPPassword)
	str("EMAIL_FROM", &config.MailFrom)
	str("ADMIN_EMAIL", &config.AdminEmail)
	str("DASHBOARD_URL", &config.DashboardURL)

	str("S3_ACCESS_KEY", &config.S3AccessKey)
	str("S3_SECRET_KEY", &config.S3SecretKey)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_ENDPOINT", &config.S3BaseEndpoint)

	return errors.Join(
		dur("REQUEST_TIMEOUT", &config.RequestTimeout),
		dur("USER_TOKEN_TTL", &config.UserTokenTTL),
		dur("ADMIN_TOKEN_TTL", &config.AdminTokenTTL),
		num("BCRYPT_COST", &config.BcryptCost),
		num("SMTP_PORT", &config.SMTPPort),
		num("DB_MAX_OPEN_CONNS", &config.DBMaxOpenConns),
	)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
