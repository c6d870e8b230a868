package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirosfoundation/go-isds/pkg/isds"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_ISDS_PASSWORD", "s3cret")
	path := writeConfig(t, "isds.yaml", `
username: user1
password: ${TEST_ISDS_PASSWORD}
production: true
wsdlDir: /etc/isds/wsdl
timeout: 45s
logging:
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "user1", cfg.Username)
	assert.Equal(t, "s3cret", cfg.Password)
	assert.True(t, cfg.Production)
	assert.Equal(t, "/etc/isds/wsdl", cfg.WSDLDir)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	client := cfg.ClientConfig(nil)
	assert.Equal(t, isds.ProductionURL, client.Endpoint())
	assert.Equal(t, "s3cret", client.Password)
	assert.Equal(t, 45*time.Second, client.Timeout)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "isds.yaml", "username: u\npassword: p\ndebug: true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.False(t, cfg.Production)
	assert.NotNil(t, cfg.Logger())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing username", "password: p\n", "username is required"},
		{"missing password", "username: u\n", "password is required"},
		{"bad level", "username: u\npassword: p\nlogging:\n  level: loud\n", "logging.level"},
		{"bad format", "username: u\npassword: p\nlogging:\n  format: xml\n", "logging.format"},
		{"bad yaml", "username: [u\n", "parsing config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "isds.yaml", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("ISDS_USERNAME", "env-user")
	t.Setenv("ISDS_PASSWORD", "env-pass")
	t.Setenv("ISDS_WSDL_DIR", "/tmp/wsdl")
	t.Setenv("ISDS_TIMEOUT", "10s")
	t.Setenv("ISDS_LOG_FORMAT", "json")

	cfg, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "env-user", cfg.Username)
	assert.Equal(t, "env-pass", cfg.Password)
	assert.Equal(t, "/tmp/wsdl", cfg.WSDLDir)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadEnv_DotEnvFile(t *testing.T) {
	// t.Setenv registers cleanup so values loaded from the file are removed.
	t.Setenv("ISDS_USERNAME", "")
	t.Setenv("ISDS_PASSWORD", "from-environment")
	os.Unsetenv("ISDS_USERNAME")

	envFile := writeConfig(t, ".env", "ISDS_USERNAME=dotenv-user\nISDS_PASSWORD=dotenv-pass\nISDS_PRODUCTION=true\n")
	t.Setenv("ISDS_PRODUCTION", "")
	os.Unsetenv("ISDS_PRODUCTION")

	cfg, err := LoadEnv(envFile, filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "dotenv-user", cfg.Username)
	assert.Equal(t, "from-environment", cfg.Password)
	assert.True(t, cfg.Production)
}

func TestLoadEnv_Invalid(t *testing.T) {
	t.Setenv("ISDS_USERNAME", "u")
	t.Setenv("ISDS_PASSWORD", "p")
	t.Setenv("ISDS_TIMEOUT", "soon")

	_, err := LoadEnv()
	assert.Error(t, err)
}
