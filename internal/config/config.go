package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAPIServer is the production crypto portal backend.
const DefaultAPIServer = "https://six003cem-crypto-server.onrender.com/"

// LoadFromBytes loads configuration from YAML bytes with environment variable expansion
func LoadFromBytes(data []byte) (Config, error) {
	var c Config
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()
	return c, nil
}

// Merge overlays the YAML file at path onto c. Keys absent from the file keep
// their current values.
func (c *Config) Merge(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	c.applyDefaults()
	return nil
}

// parseBool parses a string as boolean with a default value.
// Accepts: "true", "1", "yes" as true; empty or other values return default.
func parseBool(s string, defaultVal bool) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return defaultVal
	}
	return s == "true" || s == "1" || s == "yes"
}

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`
	App struct {
		BaseURL       string        `yaml:"baseURL"`
		LoginPath     string        `yaml:"loginPath"`
		RedirectDelay time.Duration `yaml:"redirectDelay"`
		LogLevel      string        `yaml:"logLevel"`
	} `yaml:"app"`
	API struct {
		BaseURL         string        `yaml:"baseURL"`
		WithCredentials string        `yaml:"withCredentials"`
		Timeout         time.Duration `yaml:"timeout"`
	} `yaml:"api"`
	Credentials struct {
		// Source is one of "file", "keyring", "env".
		Source         string `yaml:"source"`
		Key            string `yaml:"key"`
		FilePath       string `yaml:"filePath"`
		KeyringService string `yaml:"keyringService"`
		EnvVar         string `yaml:"envVar"`
		CookieName     string `yaml:"cookieName"`
	} `yaml:"credentials"`
	Security struct {
		RateLimitEnabled      string `yaml:"rateLimitEnabled"`
		AuthRateLimitRequests int    `yaml:"authRateLimitRequests"`
		AuthRateLimitInterval int    `yaml:"authRateLimitInterval"`
		EnableSecurityHeaders string `yaml:"enableSecurityHeaders"`
		ContentSecurityPolicy string `yaml:"contentSecurityPolicy"`
	} `yaml:"security"`
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 27460
	}
	if c.App.LoginPath == "" {
		c.App.LoginPath = "/login"
	}
	if c.App.RedirectDelay <= 0 {
		c.App.RedirectDelay = 3 * time.Second
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultAPIServer
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = 15 * time.Second
	}
	if c.Credentials.Source == "" {
		c.Credentials.Source = "file"
	}
	if c.Credentials.Key == "" {
		c.Credentials.Key = "token"
	}
	if c.Credentials.KeyringService == "" {
		c.Credentials.KeyringService = "cryptoportal"
	}
	if c.Credentials.EnvVar == "" {
		c.Credentials.EnvVar = "CRYPTOPORTAL_TOKEN"
	}
	if c.Credentials.CookieName == "" {
		c.Credentials.CookieName = "token"
	}
	if c.Security.AuthRateLimitRequests <= 0 {
		c.Security.AuthRateLimitRequests = 5
	}
	if c.Security.AuthRateLimitInterval <= 0 {
		c.Security.AuthRateLimitInterval = 60
	}
}

// Addr is the listen address of the web front end.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LoginURL is where the reset page sends the user after a successful reset.
func (c Config) LoginURL() string {
	return strings.TrimRight(c.App.BaseURL, "/") + c.App.LoginPath
}

func (c Config) IsWithCredentials() bool {
	return parseBool(c.API.WithCredentials, true)
}

func (c Config) IsRateLimitEnabled() bool {
	return parseBool(c.Security.RateLimitEnabled, true)
}

func (c Config) IsSecurityHeadersEnabled() bool {
	return parseBool(c.Security.EnableSecurityHeaders, true)
}
