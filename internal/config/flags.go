package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Flag names.
const (
	FlagConfig             = "config"
	FlagBackend            = "backend"
	FlagBackendURL         = "backend-url"
	FlagHTTPTimeout        = "http-timeout"
	FlagTagLookupDelay     = "tag-lookup-delay"
	FlagEmailCheckDelay    = "email-check-delay"
	FlagPublishDelay       = "publish-delay"
	FlagPublishSuccessRate = "publish-success-rate"
	FlagMaxImageBytes      = "max-image-bytes"
	FlagPlaceholderImage   = "placeholder-image"
	FlagPlaceholderLabel   = "placeholder-label"
	FlagLogFile            = "log-file"
	FlagLogLevel           = "log-level"
	FlagAddr               = "addr"
	FlagCORSOrigins        = "cors-origins"
)

// RegisterFlags adds one flag per key to fs, defaulting to Default().
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String(FlagConfig, "", "Config file (.yaml, .yml, .json or .toml)")
	fs.String(FlagBackend, d.Backend, "Backend: simulated|http")
	fs.String(FlagBackendURL, d.BackendURL, "Base URL of `codeconnect serve` for the http backend")
	fs.Duration(FlagHTTPTimeout, d.HTTPTimeout, "Timeout of a single http backend request")
	fs.Duration(FlagTagLookupDelay, d.Delays.TagLookup, "Simulated tag lookup latency")
	fs.Duration(FlagEmailCheckDelay, d.Delays.EmailCheck, "Simulated email check latency")
	fs.Duration(FlagPublishDelay, d.Delays.Publish, "Simulated publish latency")
	fs.Float64(FlagPublishSuccessRate, d.PublishSuccessRate, "Probability that a simulated publish succeeds")
	fs.Int64(FlagMaxImageBytes, d.MaxImageBytes, "Largest accepted image upload in bytes")
	fs.String(FlagPlaceholderImage, d.PlaceholderImage, "Image source shown before any upload")
	fs.String(FlagPlaceholderLabel, d.PlaceholderLabel, "Image label shown before any upload")
	fs.String(FlagLogFile, d.LogFile, "Log file of the form (serve logs to stderr)")
	fs.String(FlagLogLevel, d.LogLevel, "Log level: debug|info|warn|error")
	fs.String(FlagAddr, d.Addr, "Listen address of serve")
	fs.StringSlice(FlagCORSOrigins, d.CORSOrigins, "Allowed CORS origins of serve")
}

// ApplyFlags overlays the flags the user actually set, then re-validates.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	str := func(name string, dst *string) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetString(name)
		}
	}
	str(FlagBackend, &c.Backend)
	str(FlagBackendURL, &c.BackendURL)
	str(FlagPlaceholderImage, &c.PlaceholderImage)
	str(FlagPlaceholderLabel, &c.PlaceholderLabel)
	str(FlagLogFile, &c.LogFile)
	str(FlagLogLevel, &c.LogLevel)
	str(FlagAddr, &c.Addr)

	for name, dst := range map[string]*time.Duration{
		FlagHTTPTimeout:     &c.HTTPTimeout,
		FlagTagLookupDelay:  &c.Delays.TagLookup,
		FlagEmailCheckDelay: &c.Delays.EmailCheck,
		FlagPublishDelay:    &c.Delays.Publish,
	} {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetDuration(name)
		}
	}
	if err == nil && fs.Changed(FlagPublishSuccessRate) {
		c.PublishSuccessRate, err = fs.GetFloat64(FlagPublishSuccessRate)
	}
	if err == nil && fs.Changed(FlagMaxImageBytes) {
		c.MaxImageBytes, err = fs.GetInt64(FlagMaxImageBytes)
	}
	if err == nil && fs.Changed(FlagCORSOrigins) {
		c.CORSOrigins, err = fs.GetStringSlice(FlagCORSOrigins)
	}
	if err != nil {
		return err
	}
	return c.Validate()
}
