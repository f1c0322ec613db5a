package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwner = "aabbccddeeff00112233445566778899aabbccdd"

func validConfig() Config {
	return Config{
		ListenAddr: "127.0.0.1:8480",
		DataDir:    "./data",
		LogLevel:   "info",
		Owner:      testOwner,
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	assert.NoError(t, ValidateConfig(validConfig()))
}

func TestValidateConfig_AdminTokenPair(t *testing.T) {
	cfg := validConfig()
	cfg.AdminTokenHash = "00ff"
	assert.ErrorIs(t, ValidateConfig(cfg), ErrPartialAdminToken)

	cfg.AdminTokenSalt = "11ee"
	assert.NoError(t, ValidateConfig(cfg))

	cfg.AdminTokenHash = "not hex"
	assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidAdminToken)
}

func TestValidateConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }, ErrEmptyDataDir},
		{"bad listen addr", func(c *Config) { c.ListenAddr = "no-port" }, ErrInvalidListenAddr},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, ErrInvalidLogLevel},
		{"missing owner", func(c *Config) { c.Owner = "" }, ErrMissingOwner},
		{"short owner", func(c *Config) { c.Owner = "dead" }, ErrInvalidOwner},
		{"non-hex owner", func(c *Config) { c.Owner = "zz" + testOwner[2:] }, ErrInvalidOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, ValidateConfig(cfg), tt.want)
		})
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("BIDOPOOL_LISTEN_ADDR", "127.0.0.1:9000")
	t.Setenv("BIDOPOOL_DATA_DIR", t.TempDir())
	t.Setenv("BIDOPOOL_LOG_LEVEL", "debug")
	t.Setenv("BIDOPOOL_OWNER", testOwner)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, testOwner, cfg.Owner)
}

func TestLoad_Defaults(t *testing.T) {
	// t.Setenv registers the restore; Unsetenv leaves the variable truly
	// absent so envconfig falls back to the struct defaults.
	for _, key := range []string{"BIDOPOOL_LISTEN_ADDR", "BIDOPOOL_DATA_DIR", "BIDOPOOL_LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("BIDOPOOL_OWNER", testOwner)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8480", cfg.ListenAddr)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_InvalidFails(t *testing.T) {
	t.Setenv("BIDOPOOL_OWNER", "dead")
	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidOwner)
}
