package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/logicspark/logicspark/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Only non-zero
// values override what is already in Config.
type JsonConfig struct {
	Environment       string         `json:"environment"`
	LogLevel          string         `json:"log_level"`
	LogFormat         string         `json:"log_format"`
	HTTPAddr          string         `json:"http_addr"`
	GRPCHealthAddr    string         `json:"grpc_health_addr"`
	AllowedOrigins    []string       `json:"allowed_origins"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	DatabaseDSN       string         `json:"database_dsn"`
	DBMaxOpenConns    int            `json:"db_max_open_conns"`
	DBConnMaxIdleTime timex.Duration `json:"db_conn_max_idle_time"`
	DBConnectTimeout  timex.Duration `json:"db_connect_timeout"`
	SecretKey         string         `json:"secret_key"`
	UserTokenTTL      timex.Duration `json:"user_token_ttl"`
	AdminTokenTTL     timex.Duration `json:"admin_token_ttl"`
	BcryptCost        int            `json:"bcrypt_cost"`
	SMTPHost          string         `json:"smtp_host"`
	SMTPPort          int            `json:"smtp_port"`
	SMTPUser          string         `json:"smtp_user"`
	SMTPPassword      string         `json:"smtp_password"`
	MailFrom          string         `json:"mail_from"`
	AdminEmail        string         `json:"admin_email"`
	DashboardURL      string         `json:"dashboard_url"`
	S3AccessKey       string         `json:"s3_access_key"`
	S3SecretKey       string         `json:"s3_secret_key"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
}

// parseJson overlays the JSON file at path onto config. An empty path means
// no file was requested.
func parseJson(config *Config, path string) error {
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.Environment, c.Environment)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCHealthAddr, c.GRPCHealthAddr)
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
	setDuration(&config.RequestTimeout, c.RequestTimeout)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setInt(&config.DBMaxOpenConns, c.DBMaxOpenConns)
	setDuration(&config.DBConnMaxIdleTime, c.DBConnMaxIdleTime)
	setDuration(&config.DBConnectTimeout, c.DBConnectTimeout)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.UserTokenTTL, c.UserTokenTTL)
	setDuration(&config.AdminTokenTTL, c.AdminTokenTTL)
	setInt(&config.BcryptCost, c.BcryptCost)
	setString(&config.SMTPHost, c.SMTPHost)
	setInt(&config.SMTPPort, c.SMTPPort)
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.MailFrom, c.MailFrom)
	setString(&config.AdminEmail, c.AdminEmail)
	setString(&config.DashboardURL, c.DashboardURL)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
