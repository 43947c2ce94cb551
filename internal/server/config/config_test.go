package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":5000", c.HTTPAddr)
	assert.Equal(t, ":50051", c.GRPCHealthAddr)
	assert.Equal(t, 24*time.Hour, c.UserTokenTTL)
	assert.Equal(t, 8*time.Hour, c.AdminTokenTTL)
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, 20, c.DBMaxOpenConns)
	assert.Equal(t, 30*time.Second, c.DBConnMaxIdleTime)
	assert.Equal(t, 5*time.Second, c.DBConnectTimeout)
	assert.Equal(t, []string{"http://127.0.0.1:5500", "http://localhost:5500"}, c.AllowedOrigins)
	assert.Equal(t, "admin@logicspark.com", c.AdminEmail)
	assert.Empty(t, c.SecretKey)
	assert.Empty(t, c.S3Bucket)
}

func TestLoad_DefaultsGenerateEphemeralSecret(t *testing.T) {
	t.Chdir(t.TempDir())

	c, err := Load(nil, noEnv)
	require.NoError(t, err)

	assert.True(t, c.EphemeralSecret)
	assert.Len(t, c.SecretKey, 64)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(nil, envMap(map[string]string{"NODE_ENV": "production"}))
	require.Error(t, err)

	c, err := Load(nil, envMap(map[string]string{"NODE_ENV": "production", "JWT_SECRET": "s3cr3t"}))
	require.NoError(t, err)
	assert.False(t, c.EphemeralSecret)
	assert.Equal(t, "s3cr3t", c.SecretKey)
}

func TestLoad_Precedence(t *testing.T) {
	t.Chdir(t.TempDir())

	path := writeTempJSON(t, map[string]any{
		"http_addr":      ":6000",
		"database_dsn":   "json-dsn",
		"secret_key":     "json-secret",
		"user_token_ttl": "12h",
		"admin_email":    "json@x.com",
	})

	env := envMap(map[string]string{
		"DATABASE_URL": "env-dsn",
		"ADMIN_EMAIL":  "env@x.com",
	})

	c, err := Load([]string{"-c", path, "-s", "flag-secret"}, env)
	require.NoError(t, err)

	assert.Equal(t, ":6000", c.HTTPAddr, "json over defaults")
	assert.Equal(t, 12*time.Hour, c.UserTokenTTL, "json over defaults")
	assert.Equal(t, "env-dsn", c.DatabaseDSN, "env over json")
	assert.Equal(t, "env@x.com", c.AdminEmail, "env over json")
	assert.Equal(t, "flag-secret", c.SecretKey, "flags over everything")
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("LOGICSPARK_TEST_DOTENV=loaded\n"), 0o600))
	t.Setenv("LOGICSPARK_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("LOGICSPARK_TEST_DOTENV"))

	_, err := Load([]string{"-env", path}, noEnv)
	require.NoError(t, err)
	assert.Equal(t, "loaded", os.Getenv("LOGICSPARK_TEST_DOTENV"))
}

func TestLoad_MissingExplicitDotEnvFails(t *testing.T) {
	_, err := Load([]string{"-env", filepath.Join(t.TempDir(), "missing.env")}, noEnv)
	require.Error(t, err)
}

func TestLoad_InvalidJSONFails(t *testing.T) {
	t.Chdir(t.TempDir())

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

	_, err := Load([]string{"-config", bad}, noEnv)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{name: "defaults with secret", mutate: func(c *Config) { c.SecretKey = "k" }, ok: true},
		{name: "zero user ttl", mutate: func(c *Config) { c.SecretKey = "k"; c.UserTokenTTL = 0 }},
		{name: "negative admin ttl", mutate: func(c *Config) { c.SecretKey = "k"; c.AdminTokenTTL = -time.Hour }},
		{name: "bcrypt cost too low", mutate: func(c *Config) { c.SecretKey = "k"; c.BcryptCost = 1 }},
		{name: "bcrypt cost too high", mutate: func(c *Config) { c.SecretKey = "k"; c.BcryptCost = 40 }},
		{name: "empty dsn", mutate: func(c *Config) { c.SecretKey = "k"; c.DatabaseDSN = "" }},
		{name: "empty http addr", mutate: func(c *Config) { c.SecretKey = "k"; c.HTTPAddr = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			err := c.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParseEnv(t *testing.T) {
	var c Config
	c.LoadDefaults()

	err := parseEnv(&c, envMap(map[string]string{
		"PORT":            "8080",
		"NODE_ENV":        "production",
		"CORS_ORIGINS":    "https://a.example, https://b.example ,",
		"ADMIN_TOKEN_TTL": "2h",
		"SMTP_PORT":       "465",
		"EMAIL_USER":      "mailer@x.com",
		"EMAIL_PASS":      "pw",
		"S3_BUCKET":       "exports",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.True(t, c.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
	assert.Equal(t, 2*time.Hour, c.AdminTokenTTL)
	assert.Equal(t, 465, c.SMTPPort)
	assert.Equal(t, "mailer@x.com", c.SMTPUser)
	assert.Equal(t, "pw", c.SMTPPassword)
	assert.Equal(t, "exports", c.S3Bucket)
}

func TestParseEnv_BadValues(t *testing.T) {
	var c Config
	c.LoadDefaults()

	err := parseEnv(&c, envMap(map[string]string{
		"USER_TOKEN_TTL": "one day",
		"BCRYPT_COST":    "ten",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "USER_TOKEN_TTL")
	assert.Contains(t, err.Error(), "BCRYPT_COST")
}

func TestParseFlags(t *testing.T) {
	config := &Config{}
	config.LoadDefaults()

	args := []string{"-a", "127.0.0.1:9090", "-g", "", "-d", "db", "-s", "secret", "-t", "1h", "-m", "30m", "-c", "ignored.json"}
	require.NoError(t, parseFlags(config, args))

	expected := &Config{}
	expected.LoadDefaults()
	expected.HTTPAddr = "127.0.0.1:9090"
	expected.GRPCHealthAddr = ""
	expected.DatabaseDSN = "db"
	expected.SecretKey = "secret"
	expected.UserTokenTTL = time.Hour
	expected.AdminTokenTTL = 30 * time.Minute

	assert.Empty(t, cmp.Diff(expected, config))
}

func TestParseFlags_BadDuration(t *testing.T) {
	config := &Config{}
	require.Error(t, parseFlags(config, []string{"-t", "soon"}))
}
