// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/mailit-go/mailit"
	"github.com/mailit-go/mailit/log"
)

// DefaultEnvFile is the optional dotenv file read by LoadConfig
const DefaultEnvFile = ".env"

// DefaultConfigPrefix is the environment variable prefix used by LoadConfig if none is given
const DefaultConfigPrefix = "MAILIT"

// Transport names accepted by Config.Transport
const (
	TransportSMTP = "smtp"
	TransportSES  = "ses"
	TransportNoop = "noop"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("invalid mailer config")

// Config holds the settings of a Mailer and its Transport.
type Config struct {
	// Transport selects the Transport: "smtp", "ses" or "noop"
	Transport string `envconfig:"TRANSPORT" default:"smtp" yaml:"transport"`

	Server string `envconfig:"SERVER" default:"localhost" yaml:"server"`
	Port   int    `envconfig:"PORT" default:"25" yaml:"port"`

	// Domain is the name sent with the HELO/EHLO greeting
	Domain   string `envconfig:"DOMAIN" default:"localhost" yaml:"domain"`
	Username string `envconfig:"USERNAME" yaml:"username"`
	Password string `envconfig:"PASSWORD" yaml:"password"`

	// AuthType is an SMTPAuthType; empty or "none" disables SMTP AUTH
	AuthType string `envconfig:"AUTH_TYPE" yaml:"auth_type"`

	// Noop replaces the configured Transport by a NoopTransport
	Noop bool `envconfig:"NOOP" yaml:"noop"`

	// StartTLS requires STARTTLS and overrides TLSPolicy with TLSMandatory
	StartTLS  bool          `envconfig:"STARTTLS" yaml:"starttls"`
	TLSPolicy string        `envconfig:"TLS_POLICY" default:"opportunistic" yaml:"tls_policy"`
	SSL       bool          `envconfig:"SSL" yaml:"ssl"`
	Timeout   time.Duration `envconfig:"TIMEOUT" default:"15s" yaml:"timeout"`
	Debug     bool          `envconfig:"DEBUG" yaml:"debug"`

	// Layout selects the mailit.Layout: "compat" or "rfc2046"
	Layout string `envconfig:"LAYOUT" default:"compat" yaml:"layout"`

	// LogLevel is a log.Level name, LogFormat one of "text", "json" or "zerolog"
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" yaml:"log_level"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text" yaml:"log_format"`

	SES SESConfig `envconfig:"SES" yaml:"ses"`
}

// DefaultConfig returns a Config holding the same defaults LoadConfig applies.
func DefaultConfig() Config {
	return Config{
		Transport: TransportSMTP,
		Server:    "localhost",
		Port:      DefaultPort,
		Domain:    "localhost",
		TLSPolicy: "opportunistic",
		Timeout:   DefaultTimeout,
		Layout:    "compat",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// LoadConfig reads the optional DefaultEnvFile and processes the environment variables
// with the given prefix, e.g. MAILIT_SERVER and MAILIT_SES_REGION. An empty prefix
// selects DefaultConfigPrefix.
func LoadConfig(prefix string) (Config, error) {
	var cfg Config
	if prefix == "" {
		prefix = DefaultConfigPrefix
	}

	// .env file is optional
	_ = godotenv.Load(DefaultEnvFile)

	if err := envconfig.Process(prefix, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to process environment: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML config file on top of DefaultConfig.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Validate checks the transport, port, timeout, TLS policy, auth type, layout and
// logging settings.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Transport) {
	case TransportSMTP:
		if c.Server == "" {
			errs = append(errs, ErrNoHostname)
		}
		if c.Port < 1 || c.Port > 65535 {
			errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidPort, c.Port))
		}
		if c.Timeout <= 0 {
			errs = append(errs, ErrInvalidTimeout)
		}
		if _, err := ParseTLSPolicy(c.TLSPolicy); err != nil {
			errs = append(errs, err)
		}
		if _, err := ParseSMTPAuthType(c.AuthType); err != nil {
			errs = append(errs, err)
		}
	case TransportSES, TransportNoop:
	default:
		errs = append(errs, fmt.Errorf("unknown transport: %q", c.Transport))
	}
	if _, err := ParseLayout(c.Layout); err != nil {
		errs = append(errs, err)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json", "zerolog":
	default:
		errs = append(errs, fmt.Errorf("unknown log format: %q", c.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// NewLogger returns the log.Logger selected by LogFormat and LogLevel, writing to output.
func (c Config) NewLogger(output io.Writer) (log.Logger, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(c.LogFormat) {
	case "json":
		return log.NewJSON(output, level), nil
	case "zerolog":
		return log.FromZerolog(zerolog.New(output).With().Timestamp().Logger(), level), nil
	default:
		return log.New(output, level), nil
	}
}

// NewTransport returns the Transport selected by the Config.
func (c Config) NewTransport(ctx context.Context, logger log.Logger) (Transport, error) {
	if c.Noop {
		return NewNoopTransport(logger), nil
	}
	switch strings.ToLower(c.Transport) {
	case TransportNoop:
		return NewNoopTransport(logger), nil
	case TransportSES:
		return NewSESTransport(ctx, c.SES, logger)
	}

	policy, err := ParseTLSPolicy(c.TLSPolicy)
	if err != nil {
		return nil, err
	}
	if c.StartTLS {
		policy = TLSMandatory
	}
	authType, err := ParseSMTPAuthType(c.AuthType)
	if err != nil {
		return nil, err
	}
	opts := []SMTPOption{
		WithPort(c.Port),
		WithTimeout(c.Timeout),
		WithHELO(c.Domain),
		WithTLSPolicy(policy),
		WithSMTPAuth(authType),
		WithUsername(c.Username),
		WithPassword(c.Password),
		WithLogger(logger),
	}
	if c.SSL {
		opts = append(opts, WithSSL())
	}
	if c.Debug {
		opts = append(opts, WithDebugLog())
	}
	return NewSMTPTransport(c.Server, opts...)
}

// NewFromConfig validates cfg and returns a Mailer with the configured Transport,
// Composer layout and logger. The logger writes to os.Stderr.
func NewFromConfig(ctx context.Context, cfg Config, opts ...Option) (*Mailer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		return nil, err
	}
	transport, err := cfg.NewTransport(ctx, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s transport: %w", cfg.Transport, err)
	}
	layout, err := ParseLayout(cfg.Layout)
	if err != nil {
		return nil, err
	}

	defaults := []Option{
		WithComposer(mailit.NewComposer(mailit.WithLayout(layout))),
		WithMailerLogger(logger),
	}
	return New(transport, append(defaults, opts...)...)
}

// ParseLayout returns the mailit.Layout for its name: "compat" (or empty) and "rfc2046".
func ParseLayout(name string) (mailit.Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "compat":
		return mailit.LayoutCompat, nil
	case "rfc2046":
		return mailit.LayoutRFC2046, nil
	default:
		return mailit.LayoutCompat, fmt.Errorf("unknown layout: %q", name)
	}
}
