// Package config resolves codeconnect's runtime configuration.
//
// Sources are applied in increasing precedence: built-in defaults, an
// optional config file (.yaml/.yml, .json or .toml), CODECONNECT_*
// environment variables and finally command-line flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"codeconnect/internal/form"
	"codeconnect/internal/service"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Backend kinds.
const (
	BackendSimulated = "simulated"
	BackendHTTP      = "http"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "CODECONNECT_"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds runtime parameters for the form and the server.
type Config struct {
	Backend            string
	BackendURL         string
	HTTPTimeout        time.Duration
	Delays             service.Delays
	PublishSuccessRate float64
	MaxImageBytes      int64
	PlaceholderImage   string
	PlaceholderLabel   string
	LogFile            string
	LogLevel           string
	Addr               string
	CORSOrigins        []string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backend:            BackendSimulated,
		BackendURL:         "http://localhost:8080",
		HTTPTimeout:        service.DefaultHTTPTimeout,
		Delays:             service.DefaultDelays(),
		PublishSuccessRate: service.DefaultSuccessRate,
		MaxImageBytes:      form.DefaultMaxImageBytes,
		PlaceholderImage:   form.DefaultPlaceholderImage,
		PlaceholderLabel:   form.DefaultPlaceholderLabel,
		LogFile:            "codeconnect.log",
		LogLevel:           "info",
		Addr:               ":8080",
	}
}

// File mirrors Config as written in a config file. Absent keys leave the
// current value alone. Durations are strings such as "1s" or "250ms".
type File struct {
	Backend            *string  `json:"backend" yaml:"backend" toml:"backend"`
	BackendURL         *string  `json:"backend_url" yaml:"backend_url" toml:"backend_url"`
	HTTPTimeout        *string  `json:"http_timeout" yaml:"http_timeout" toml:"http_timeout"`
	TagLookupDelay     *string  `json:"tag_lookup_delay" yaml:"tag_lookup_delay" toml:"tag_lookup_delay"`
	EmailCheckDelay    *string  `json:"email_check_delay" yaml:"email_check_delay" toml:"email_check_delay"`
	PublishDelay       *string  `json:"publish_delay" yaml:"publish_delay" toml:"publish_delay"`
	PublishSuccessRate *float64 `json:"publish_success_rate" yaml:"publish_success_rate" toml:"publish_success_rate"`
	MaxImageBytes      *int64   `json:"max_image_bytes" yaml:"max_image_bytes" toml:"max_image_bytes"`
	PlaceholderImage   *string  `json:"placeholder_image" yaml:"placeholder_image" toml:"placeholder_image"`
	PlaceholderLabel   *string  `json:"placeholder_label" yaml:"placeholder_label" toml:"placeholder_label"`
	LogFile            *string  `json:"log_file" yaml:"log_file" toml:"log_file"`
	LogLevel           *string  `json:"log_level" yaml:"log_level" toml:"log_level"`
	Addr               *string  `json:"addr" yaml:"addr" toml:"addr"`
	CORSOrigins        []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// LoadFile reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func LoadFile(path string) (File, error) {
	var f File
	if path == "" {
		return f, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &f)
	case ".json":
		err = json.Unmarshal(b, &f)
	case ".toml":
		err = toml.Unmarshal(b, &f)
	default:
		return f, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return f, fmt.Errorf("parse %s: %w", path, err)
	}
	return f, nil
}

// Load resolves defaults, the file at path (if any) and the environment.
// The result is validated once flags are applied by ApplyFlags.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := LoadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := cfg.ApplyFile(f); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyFile overlays the keys present in f.
func (c *Config) ApplyFile(f File) error {
	setString(&c.Backend, f.Backend)
	setString(&c.BackendURL, f.BackendURL)
	setString(&c.PlaceholderImage, f.PlaceholderImage)
	setString(&c.PlaceholderLabel, f.PlaceholderLabel)
	setString(&c.LogFile, f.LogFile)
	setString(&c.LogLevel, f.LogLevel)
	setString(&c.Addr, f.Addr)
	if f.PublishSuccessRate != nil {
		c.PublishSuccessRate = *f.PublishSuccessRate
	}
	if f.MaxImageBytes != nil {
		c.MaxImageBytes = *f.MaxImageBytes
	}
	if f.CORSOrigins != nil {
		c.CORSOrigins = append([]string(nil), f.CORSOrigins...)
	}
	durations := []struct {
		key string
		src *string
		dst *time.Duration
	}{
		{"http_timeout", f.HTTPTimeout, &c.HTTPTimeout},
		{"tag_lookup_delay", f.TagLookupDelay, &c.Delays.TagLookup},
		{"email_check_delay", f.EmailCheckDelay, &c.Delays.EmailCheck},
		{"publish_delay", f.PublishDelay, &c.Delays.Publish},
	}
	for _, d := range durations {
		if d.src == nil {
			continue
		}
		v, err := time.ParseDuration(*d.src)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = v
	}
	return nil
}

// ApplyEnv overlays CODECONNECT_* variables found through lookup.
// Empty values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return strings.TrimSpace(v), true
	}
	for key, dst := range map[string]*string{
		"BACKEND":           &c.Backend,
		"BACKEND_URL":       &c.BackendURL,
		"PLACEHOLDER_IMAGE": &c.PlaceholderImage,
		"PLACEHOLDER_LABEL": &c.PlaceholderLabel,
		"LOG_FILE":          &c.LogFile,
		"LOG_LEVEL":         &c.LogLevel,
		"ADDR":              &c.Addr,
	} {
		if v, ok := get(key); ok {
			*dst = v
		}
	}
	for key, dst := range map[string]*time.Duration{
		"HTTP_TIMEOUT":      &c.HTTPTimeout,
		"TAG_LOOKUP_DELAY":  &c.Delays.TagLookup,
		"EMAIL_CHECK_DELAY": &c.Delays.EmailCheck,
		"PUBLISH_DELAY":     &c.Delays.Publish,
	} {
		if v, ok := get(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*dst = d
		}
	}
	if v, ok := get("PUBLISH_SUCCESS_RATE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sPUBLISH_SUCCESS_RATE: %w", EnvPrefix, err)
		}
		c.PublishSuccessRate = f
	}
	if v, ok := get("MAX_IMAGE_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sMAX_IMAGE_BYTES: %w", EnvPrefix, err)
		}
		c.MaxImageBytes = n
	}
	if v, ok := get("CORS_ORIGINS"); ok {
		c.CORSOrigins = splitCSV(v)
	}
	return nil
}

// Validate reports every problem found, joined.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}
	switch c.Backend {
	case BackendSimulated:
	case BackendHTTP:
		if c.BackendURL == "" {
			bad("backend_url is required for the http backend")
		}
	default:
		bad("unknown backend %q", c.Backend)
	}
	if c.PublishSuccessRate < 0 || c.PublishSuccessRate > 1 {
		bad("publish_success_rate must be within [0, 1], got %v", c.PublishSuccessRate)
	}
	if c.MaxImageBytes <= 0 {
		bad("max_image_bytes must be positive")
	}
	if c.HTTPTimeout < 0 || c.Delays.TagLookup < 0 || c.Delays.EmailCheck < 0 || c.Delays.Publish < 0 {
		bad("durations must not be negative")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		bad("log_level: %v", err)
	}
	return errors.Join(errs...)
}

// FormSettings returns the subset the form controller needs.
func (c Config) FormSettings() form.Settings {
	return form.Settings{
		MaxImageBytes:    c.MaxImageBytes,
		PlaceholderImage: c.PlaceholderImage,
		PlaceholderLabel: c.PlaceholderLabel,
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
