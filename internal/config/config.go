// Package config resolves the process-wide settings of the scan façade once at
// startup. Values are layered: defaults, an optional YAML file, an optional
// .env file, then the process environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvAPIKey          = "VIRUSTOTAL_API_KEY"
	EnvScanURL         = "VIRUSTOTAL_SCAN_URL"
	EnvGUIBaseURL      = "VIRUSTOTAL_GUI_BASE_URL"
	EnvListenAddr      = "VTSCAN_LISTEN_ADDR"
	EnvIPv4Only        = "VTSCAN_IPV4_ONLY"
	EnvUpstreamTimeout = "VTSCAN_UPSTREAM_TIMEOUT"
	EnvMaxUploadBytes  = "VTSCAN_MAX_UPLOAD_BYTES"
	EnvMaxConnections  = "VTSCAN_MAX_CONNECTIONS"
	EnvLogLevel        = "VTSCAN_LOG_LEVEL"
	EnvLogFormat       = "VTSCAN_LOG_FORMAT"
)

const (
	DefaultListenAddr = ":8000"
	DefaultScanURL    = "https://www.virustotal.com/vtapi/v2/file/scan"
	DefaultGUIBaseURL = "https://www.virustotal.com/gui"
)

// ErrMissingAPIKey is returned by Validate when no credential was resolved.
var ErrMissingAPIKey = errors.New(EnvAPIKey + " is required")

// Config holds every runtime setting. It is built once and never mutated
// after the server starts.
type Config struct {
	// ListenAddr is the HTTP listen address of the gateway.
	ListenAddr string `yaml:"listen_addr"`

	// APIKey is the VirusTotal credential sent as the "apikey" form field.
	APIKey string `yaml:"api_key"`

	// ScanURL is the provider's file scan endpoint.
	ScanURL string `yaml:"scan_url"`

	// GUIBaseURL is the base of the human-viewable report links.
	GUIBaseURL string `yaml:"gui_base_url"`

	// IPv4Only restricts outbound dialing to IPv4.
	IPv4Only bool `yaml:"ipv4_only"`

	// UpstreamTimeout bounds the outbound call. Zero keeps the transport default.
	UpstreamTimeout time.Duration `yaml:"upstream_timeout"`

	// MaxUploadBytes caps inbound request bodies. Zero means unlimited.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// MaxConnections caps concurrently accepted connections. Zero means unlimited.
	MaxConnections int `yaml:"max_connections"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// DefaultConfig returns a Config populated with defaults. APIKey is left empty.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr: DefaultListenAddr,
		ScanURL:    DefaultScanURL,
		GUIBaseURL: DefaultGUIBaseURL,
		IPv4Only:   true,
		LogLevel:   "info",
		LogFormat:  "json",
	}
}

// LoadOptions control where Load looks for settings.
type LoadOptions struct {
	// ConfigFile is an optional YAML file. Empty skips it.
	ConfigFile string

	// EnvFile is an optional dotenv file. A missing file is ignored.
	EnvFile string

	// LookupEnv reads the process environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load resolves a Config from defaults, the YAML file, the dotenv file and
// the environment, in that order of increasing precedence. The dotenv file
// never overrides a variable that is already set in the environment.
// Load does not call Validate.
func Load(opts LoadOptions) (*Config, error) {
	cfg := DefaultConfig()

	if opts.ConfigFile != "" {
		if err := cfg.mergeFile(opts.ConfigFile); err != nil {
			return nil, err
		}
	}

	dotenv := map[string]string{}
	if opts.EnvFile != "" {
		vals, err := godotenv.Read(opts.EnvFile)
		switch {
		case err == nil:
			dotenv = vals
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("reading env file %s: %w", opts.EnvFile, err)
		}
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if err := cfg.mergeEnv(get); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv(get func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := get(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	str(EnvAPIKey, &c.APIKey)
	str(EnvScanURL, &c.ScanURL)
	str(EnvGUIBaseURL, &c.GUIBaseURL)
	str(EnvListenAddr, &c.ListenAddr)
	str(EnvLogLevel, &c.LogLevel)
	str(EnvLogFormat, &c.LogFormat)

	if v, ok := get(EnvIPv4Only); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvIPv4Only, err)
		}
		c.IPv4Only = b
	}
	if v, ok := get(EnvUpstreamTimeout); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvUpstreamTimeout, err)
		}
		c.UpstreamTimeout = d
	}
	if v, ok := get(EnvMaxUploadBytes); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvMaxUploadBytes, err)
		}
		c.MaxUploadBytes = n
	}
	if v, ok := get(EnvMaxConnections); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvMaxConnections, err)
		}
		c.MaxConnections = n
	}
	return nil
}

// Validate reports the first setting that prevents startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if err := checkURL("scan_url", c.ScanURL); err != nil {
		return err
	}
	if err := checkURL("gui_base_url", c.GUIBaseURL); err != nil {
		return err
	}
	if c.ListenAddr == "" {
		return errors.New("listen_addr must not be empty")
	}
	if c.UpstreamTimeout < 0 {
		return errors.New("upstream_timeout must not be negative")
	}
	if c.MaxUploadBytes < 0 {
		return errors.New("max_upload_bytes must not be negative")
	}
	if c.MaxConnections < 0 {
		return errors.New("max_connections must not be negative")
	}
	return nil
}

func checkURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must include scheme and host: %q", name, raw)
	}
	return nil
}
