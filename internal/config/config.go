// Package config resolves varnamala settings from defaults, the config file,
// VARNAMALA_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jsvensson/varnamala/internal/client"
	"github.com/jsvensson/varnamala/internal/sankhya"
)

const (
	EnvPrefix = "VARNAMALA"
	dirName   = ".varnamala"
	fileName  = "config.yaml"
)

// Setting keys.
const (
	KeyBaseURL   = "base_url"
	KeyToken     = "token"
	KeyScript    = "script"
	KeyInputType = "input_type"
	KeyTimeout   = "timeout"
	KeyCacheTTL  = "cache_ttl"
	KeyRateLimit = "rate_limit"
	KeyRateBurst = "rate_burst"
	KeyVerbose   = "verbose"
)

// Keys lists every setting in display order.
var Keys = []string{
	KeyBaseURL, KeyToken, KeyScript, KeyInputType,
	KeyTimeout, KeyCacheTTL, KeyRateLimit, KeyRateBurst, KeyVerbose,
}

// Config is the resolved configuration.
type Config struct {
	BaseURL   string            `mapstructure:"base_url"`
	Token     string            `mapstructure:"token"`
	Script    sankhya.Script    `mapstructure:"script"`
	InputType sankhya.InputMode `mapstructure:"input_type"`
	Timeout   time.Duration     `mapstructure:"timeout"`
	CacheTTL  time.Duration     `mapstructure:"cache_ttl"`
	RateLimit float64           `mapstructure:"rate_limit"`
	RateBurst int               `mapstructure:"rate_burst"`
	Verbose   bool              `mapstructure:"verbose"`

	// File is the config file that was read, or "" if none existed.
	File string `mapstructure:"-"`
}

// DefaultPath returns ~/.varnamala/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, dirName, fileName), nil
}

// SetDefaults registers the built-in value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBaseURL, client.DefaultBaseURL)
	v.SetDefault(KeyToken, "")
	v.SetDefault(KeyScript, string(sankhya.Latin))
	v.SetDefault(KeyInputType, string(sankhya.WordMode))
	v.SetDefault(KeyTimeout, client.DefaultTimeout)
	v.SetDefault(KeyCacheTTL, client.DefaultCacheTTL)
	v.SetDefault(KeyRateLimit, client.DefaultRateLimit)
	v.SetDefault(KeyRateBurst, client.DefaultRateBurst)
	v.SetDefault(KeyVerbose, false)
}

// Load resolves the configuration through v. Flags must already be bound to
// v. An empty path means DefaultPath; a missing file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	SetDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	file := path
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		file = ""
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.File = file

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that enumerated settings hold known values and that
// durations are positive.
func (c *Config) Validate() error {
	if _, err := sankhya.ParseScript(string(c.Script)); err != nil {
		return fmt.Errorf("config %s: %w", KeyScript, err)
	}
	if _, err := sankhya.ParseInputMode(string(c.InputType)); err != nil {
		return fmt.Errorf("config %s: %w", KeyInputType, err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config %s: must be positive, got %s", KeyTimeout, c.Timeout)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("config %s: must not be empty", KeyBaseURL)
	}
	return nil
}

// ClientOptions maps the configuration onto service client options.
func (c *Config) ClientOptions() client.Options {
	return client.Options{
		BaseURL:   c.BaseURL,
		Token:     c.Token,
		Timeout:   c.Timeout,
		CacheTTL:  c.CacheTTL,
		RateLimit: c.RateLimit,
		RateBurst: c.RateBurst,
	}
}

// YAML renders the configuration for display. The token is masked.
func (c *Config) YAML() ([]byte, error) {
	token := ""
	if c.Token != "" {
		token = "********"
	}
	doc := yaml.Node{Kind: yaml.MappingNode}
	var encErr error
	add := func(key string, value any) {
		var val yaml.Node
		if err := val.Encode(value); err != nil && encErr == nil {
			encErr = err
		}
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, &val)
	}
	add(KeyBaseURL, c.BaseURL)
	add(KeyToken, token)
	add(KeyScript, string(c.Script))
	add(KeyInputType, string(c.InputType))
	add(KeyTimeout, c.Timeout.String())
	add(KeyCacheTTL, c.CacheTTL.String())
	add(KeyRateLimit, c.RateLimit)
	add(KeyRateBurst, c.RateBurst)
	add(KeyVerbose, c.Verbose)

	if encErr != nil {
		return nil, fmt.Errorf("encoding config: %w", encErr)
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return out, nil
}

// Init writes a commented default config file to path. It refuses to
// overwrite an existing file.
func Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	SetDefaults(v)
	var defaults Config
	if err := v.Unmarshal(&defaults); err != nil {
		return fmt.Errorf("decoding defaults: %w", err)
	}
	body, err := defaults.YAML()
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("# varnamala configuration\n")
	b.WriteString("#\n")
	b.WriteString("# Precedence (highest first): flags, VARNAMALA_* environment variables,\n")
	b.WriteString("# this file, built-in defaults.\n\n")
	b.Write(body)

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Set stores one key in the config file at path, creating the file if
// needed. Other keys in the file are left untouched.
func Set(path, key, value string) error {
	typed, err := parseValue(key, value)
	if err != nil {
		return err
	}

	settings := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return fmt.Errorf("parsing config file: %w", err)
		}
		if settings == nil {
			settings = map[string]any{}
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	default:
		return fmt.Errorf("reading config file: %w", err)
	}

	settings[key] = typed
	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// parseValue validates a raw value for key and converts it to the type
// stored in the file.
func parseValue(key, value string) (any, error) {
	if !slices.Contains(Keys, key) {
		return nil, fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys, ", "))
	}

	switch key {
	case KeyScript:
		s, err := sankhya.ParseScript(value)
		return string(s), err
	case KeyInputType:
		m, err := sankhya.ParseInputMode(value)
		return string(m), err
	case KeyTimeout, KeyCacheTTL:
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", key, err)
		}
		return d.String(), nil
	case KeyRateLimit:
		f, err := cast.ToFloat64E(value)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", key, err)
		}
		return f, nil
	case KeyRateBurst:
		n, err := cast.ToIntE(value)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", key, err)
		}
		return n, nil
	case KeyVerbose:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", key, err)
		}
		return b, nil
	}
	return value, nil
}
