// Package config loads the server configuration from defaults, an optional
// YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override. Nested keys are separated
// by a double underscore: PORTFOLIO_SERVER__PORT sets server.port.
const EnvPrefix = "PORTFOLIO_"

// legacyEnv maps the variables the site has always read to config keys.
var legacyEnv = map[string]string{
	"PORT":           "server.port",
	"GIN_MODE":       "server.mode",
	"SMTP_HOST":      "smtp.host",
	"SMTP_PORT":      "smtp.port",
	"SMTP_USER":      "smtp.user",
	"SMTP_PASS":      "smtp.pass",
	"TO_EMAIL":       "smtp.to",
	"ADMIN_USERNAME": "admin.username",
	"ADMIN_PASSWORD": "admin.password",
}

// listKeys are split on commas when set from the environment.
var listKeys = map[string]bool{
	"server.cors_origins": true,
}

func envValue(key, value string) (string, any) {
	if listKeys[key] {
		var out []string
		for _, v := range strings.Split(value, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		return key, out
	}
	return key, value
}

// Load reads configuration from the given YAML file, then overlays the
// legacy environment variables and finally PORTFOLIO_* overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		if mapped, ok := legacyEnv[key]; ok && value != "" {
			return envValue(mapped, value)
		}
		return "", nil
	}), nil); err != nil {
		return nil, fmt.Errorf("loading legacy env: %w", err)
	}

	// PORTFOLIO_RELAY__KIND -> relay.kind, etc.
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		return envValue(strings.ReplaceAll(key, "__", "."), value)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validModes = map[string]bool{"debug": true, "release": true, "test": true}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if !validModes[c.Server.Mode] {
		errs = append(errs, fmt.Errorf("invalid server.mode %q: must be one of debug, release, test", c.Server.Mode))
	}

	switch c.Relay.Kind {
	case RelayForm:
		if c.Relay.Endpoint == "" {
			errs = append(errs, errors.New("relay.endpoint is required for the form relay"))
		}
	case RelaySMTP:
	default:
		errs = append(errs, fmt.Errorf("invalid relay.kind %q: must be form or smtp", c.Relay.Kind))
	}
	if c.Relay.Timeout <= 0 {
		errs = append(errs, errors.New("relay.timeout must be positive"))
	}

	if c.Motion.Tablet <= 0 || c.Motion.Desktop <= c.Motion.Tablet {
		errs = append(errs, fmt.Errorf("motion breakpoints must satisfy 0 < tablet (%v) < desktop (%v)", c.Motion.Tablet, c.Motion.Desktop))
	}
	if c.Motion.FrameRate < 1 || c.Motion.FrameRate > 240 {
		errs = append(errs, fmt.Errorf("motion.frame_rate %d out of range 1-240", c.Motion.FrameRate))
	}
	if c.Motion.Debounce < 0 {
		errs = append(errs, errors.New("motion.debounce must be non-negative"))
	}

	if c.Retention.Months < 1 {
		errs = append(errs, errors.New("retention.months must be at least 1"))
	}
	if c.DB.Path == "" {
		errs = append(errs, errors.New("db.path is required"))
	}
	if c.Server.Mode == "release" && c.Admin.Password == "" {
		errs = append(errs, errors.New("admin.password is required in release mode"))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address.
func (c *Config) Addr() string { return ":" + strconv.Itoa(c.Server.Port) }

const devAdminPassword = "admin123"

// AdminCredentials returns the admin login. Outside release mode a missing
// password falls back to a development default.
func (c *Config) AdminCredentials() (username, password string) {
	username, password = c.Admin.Username, c.Admin.Password
	if username == "" {
		username = "admin"
	}
	if password == "" && c.Server.Mode != "release" {
		log.Println("config: WARNING: using default admin password; set ADMIN_PASSWORD")
		password = devAdminPassword
	}
	return username, password
}
