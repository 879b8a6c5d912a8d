package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miguel-octavio-aguila/secdevops-challenge-1/internal/config"
)

func envFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := config.Load(config.LoadOptions{LookupEnv: envFrom(nil)})
	require.NoError(t, err)

	assert.Equal(t, config.DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, config.DefaultScanURL, cfg.ScanURL)
	assert.Equal(t, config.DefaultGUIBaseURL, cfg.GUIBaseURL)
	assert.True(t, cfg.IPv4Only)
	assert.Zero(t, cfg.UpstreamTimeout)
	assert.Empty(t, cfg.APIKey)
	assert.ErrorIs(t, cfg.Validate(), config.ErrMissingAPIKey)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Parallel()
	cfg, err := config.Load(config.LoadOptions{LookupEnv: envFrom(map[string]string{
		config.EnvAPIKey:          " secret ",
		config.EnvListenAddr:      ":9000",
		config.EnvIPv4Only:        "false",
		config.EnvUpstreamTimeout: "45s",
		config.EnvMaxUploadBytes:  "1048576",
		config.EnvMaxConnections:  "64",
		config.EnvLogLevel:        "debug",
	})})
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.False(t, cfg.IPv4Only)
	assert.Equal(t, 45*time.Second, cfg.UpstreamTimeout)
	assert.EqualValues(t, 1<<20, cfg.MaxUploadBytes)
	assert.Equal(t, 64, cfg.MaxConnections)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidEnvValues(t *testing.T) {
	t.Parallel()
	for _, key := range []string{config.EnvIPv4Only, config.EnvUpstreamTimeout, config.EnvMaxUploadBytes, config.EnvMaxConnections} {
		_, err := config.Load(config.LoadOptions{LookupEnv: envFrom(map[string]string{key: "nope"})})
		assert.Error(t, err, key)
	}
}

func TestLoad_DotenvFile(t *testing.T) {
	t.Parallel()
	envFile := writeFile(t, ".env", "VIRUSTOTAL_API_KEY=from-dotenv\nVTSCAN_LISTEN_ADDR=:7000\n")

	cfg, err := config.Load(config.LoadOptions{EnvFile: envFile, LookupEnv: envFrom(map[string]string{
		config.EnvListenAddr: ":7100",
	})})
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv", cfg.APIKey)
	// the process environment wins over the dotenv file
	assert.Equal(t, ":7100", cfg.ListenAddr)
}

func TestLoad_MissingDotenvIsIgnored(t *testing.T) {
	t.Parallel()
	_, err := config.Load(config.LoadOptions{
		EnvFile:   filepath.Join(t.TempDir(), "absent.env"),
		LookupEnv: envFrom(nil),
	})
	assert.NoError(t, err)
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Parallel()
	file := writeFile(t, "vtscan.yaml", `
listen_addr: ":8181"
api_key: yaml-key
gui_base_url: https://vt.example.com/gui
ipv4_only: false
upstream_timeout: 2m
`)

	cfg, err := config.Load(config.LoadOptions{ConfigFile: file, LookupEnv: envFrom(map[string]string{
		config.EnvAPIKey: "env-key",
	})})
	require.NoError(t, err)

	assert.Equal(t, ":8181", cfg.ListenAddr)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "https://vt.example.com/gui", cfg.GUIBaseURL)
	assert.Equal(t, config.DefaultScanURL, cfg.ScanURL)
	assert.False(t, cfg.IPv4Only)
	assert.Equal(t, 2*time.Minute, cfg.UpstreamTimeout)
}

func TestLoad_BadYAMLFile(t *testing.T) {
	t.Parallel()
	file := writeFile(t, "bad.yaml", "listen_addr: [unterminated")
	_, err := config.Load(config.LoadOptions{ConfigFile: file, LookupEnv: envFrom(nil)})
	assert.Error(t, err)

	_, err = config.Load(config.LoadOptions{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml"), LookupEnv: envFrom(nil)})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*config.Config)
		ok     bool
	}{
		{"valid", func(c *config.Config) {}, true},
		{"blank key", func(c *config.Config) { c.APIKey = "   " }, false},
		{"relative scan url", func(c *config.Config) { c.ScanURL = "/file/scan" }, false},
		{"gui url without host", func(c *config.Config) { c.GUIBaseURL = "https://" }, false},
		{"empty listen addr", func(c *config.Config) { c.ListenAddr = "" }, false},
		{"negative timeout", func(c *config.Config) { c.UpstreamTimeout = -time.Second }, false},
		{"negative upload cap", func(c *config.Config) { c.MaxUploadBytes = -1 }, false},
		{"negative conn cap", func(c *config.Config) { c.MaxConnections = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.APIKey = "k"
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
