// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailit-go/mailit"
	"github.com/mailit-go/mailit/log"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := LoadConfig("MAILITTEST")
	require.NoError(t, err)
	defaults := DefaultConfig()
	assert.Equal(t, defaults.Transport, cfg.Transport)
	assert.Equal(t, defaults.TLSPolicy, cfg.TLSPolicy)
	assert.Equal(t, defaults.Layout, cfg.Layout)
	assert.Equal(t, defaults.LogFormat, cfg.LogFormat)
	assert.Equal(t, defaults.LogLevel, cfg.LogLevel)
	assert.False(t, cfg.Noop)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MAILIT_TRANSPORT", "ses")
	t.Setenv("MAILIT_SERVER", "mail.example.com")
	t.Setenv("MAILIT_PORT", "587")
	t.Setenv("MAILIT_AUTH_TYPE", "login")
	t.Setenv("MAILIT_STARTTLS", "true")
	t.Setenv("MAILIT_TIMEOUT", "30s")
	t.Setenv("MAILIT_LAYOUT", "rfc2046")
	t.Setenv("MAILIT_SES_REGION", "eu-west-1")
	t.Setenv("MAILIT_SES_CONFIGURATION_SET", "tracking")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, TransportSES, cfg.Transport)
	assert.Equal(t, "mail.example.com", cfg.Server)
	assert.Equal(t, 587, cfg.Port)
	assert.Equal(t, "login", cfg.AuthType)
	assert.True(t, cfg.StartTLS)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "rfc2046", cfg.Layout)
	assert.Equal(t, "eu-west-1", cfg.SES.Region)
	assert.Equal(t, "tracking", cfg.SES.ConfigurationSet)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultEnvFile),
		[]byte("MAILIT_USERNAME=toni\nMAILIT_PASSWORD=\"V3ryS3cr3t+\"\n"), 0o600))
	t.Chdir(dir)
	// Registers the cleanup of the variables set from the .env file
	for _, key := range []string{"MAILIT_USERNAME", "MAILIT_PASSWORD"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "toni", cfg.Username)
	assert.Equal(t, "V3ryS3cr3t+", cfg.Password)
}

func TestLoadConfig_InvalidValue(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MAILIT_PORT", "not-a-number")
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mailit.yaml")
	content := `transport: smtp
server: smtp.example.com
port: 465
ssl: true
auth_type: SCRAM-SHA-256
username: toni
timeout: 1m
log_format: json
ses:
  region: us-east-1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com", cfg.Server)
	assert.Equal(t, 465, cfg.Port)
	assert.True(t, cfg.SSL)
	assert.Equal(t, "SCRAM-SHA-256", cfg.AuthType)
	assert.Equal(t, "toni", cfg.Username)
	assert.Equal(t, time.Minute, cfg.Timeout)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "us-east-1", cfg.SES.Region)
	// Unset values keep their defaults
	assert.Equal(t, "localhost", cfg.Domain)
	assert.Equal(t, "opportunistic", cfg.TLSPolicy)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("malformed YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("port: [1, 2"), 0o600))
		_, err := LoadConfigFile(path)
		assert.ErrorContains(t, err, "failed to parse config file")
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr error
		contain string
	}{
		{"empty server", func(c *Config) { c.Server = "" }, ErrNoHostname, ""},
		{"invalid port", func(c *Config) { c.Port = 0 }, ErrInvalidPort, ""},
		{"invalid timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout, ""},
		{"invalid TLS policy", func(c *Config) { c.TLSPolicy = "sometimes" }, ErrInvalidTLSPolicy, ""},
		{"invalid auth type", func(c *Config) { c.AuthType = "KERBEROS" }, ErrUnsupportedAuthType, ""},
		{"unknown transport", func(c *Config) { c.Transport = "pigeon" }, nil, "unknown transport"},
		{"unknown layout", func(c *Config) { c.Layout = "fancy" }, nil, "unknown layout"},
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }, nil, "unknown log level"},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }, nil, "unknown log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.contain != "" {
				assert.ErrorContains(t, err, tt.contain)
			}
		})
	}

	t.Run("SMTP settings are not checked for other transports", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Transport = TransportNoop
		cfg.Server = ""
		cfg.Port = 0
		assert.NoError(t, cfg.Validate())
	})
	t.Run("all errors are reported", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Port = -1
		cfg.Layout = "fancy"
		err := cfg.Validate()
		assert.ErrorIs(t, err, ErrInvalidPort)
		assert.ErrorContains(t, err, "unknown layout")
	})
}

func TestConfig_NewLogger(t *testing.T) {
	tests := []struct {
		format string
		want   log.Logger
	}{
		{"text", &log.Stdlog{}},
		{"json", &log.JSONlog{}},
		{"zerolog", &log.Zerolog{}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.LogFormat = tt.format
			logger, err := cfg.NewLogger(&bytes.Buffer{})
			require.NoError(t, err)
			assert.IsType(t, tt.want, logger)
		})
	}
	t.Run("invalid level", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LogLevel = "loud"
		_, err := cfg.NewLogger(&bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestConfig_NewTransport(t *testing.T) {
	ctx := context.Background()
	t.Run("smtp", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Server = "mail.example.com"
		cfg.Port = 587
		cfg.Domain = "client.example.com"
		cfg.AuthType = "plain"
		cfg.Username = "toni"
		transport, err := cfg.NewTransport(ctx, log.Nop{})
		require.NoError(t, err)
		smtpTransport, ok := transport.(*SMTPTransport)
		require.True(t, ok)
		assert.Equal(t, "mail.example.com:587", smtpTransport.ServerAddr())
		assert.Equal(t, "client.example.com", smtpTransport.helo)
		assert.Equal(t, SMTPAuthPlain, smtpTransport.authType)
		assert.Equal(t, TLSOpportunistic, smtpTransport.TLSPolicy())
	})
	t.Run("starttls forces a mandatory TLS policy", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.StartTLS = true
		cfg.TLSPolicy = "notls"
		transport, err := cfg.NewTransport(ctx, log.Nop{})
		require.NoError(t, err)
		assert.Equal(t, TLSMandatory, transport.(*SMTPTransport).TLSPolicy())
	})
	t.Run("ssl", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SSL = true
		cfg.Port = DefaultPort
		transport, err := cfg.NewTransport(ctx, log.Nop{})
		require.NoError(t, err)
		assert.Equal(t, "localhost:465", transport.(*SMTPTransport).ServerAddr())
	})
	t.Run("noop flag overrides the transport", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Noop = true
		transport, err := cfg.NewTransport(ctx, log.Nop{})
		require.NoError(t, err)
		assert.IsType(t, &NoopTransport{}, transport)
	})
	t.Run("noop transport", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Transport = TransportNoop
		transport, err := cfg.NewTransport(ctx, log.Nop{})
		require.NoError(t, err)
		assert.Equal(t, "noop", transport.Name())
	})
	t.Run("ses transport", func(t *testing.T) {
		t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "config"))
		t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "credentials"))
		cfg := DefaultConfig()
		cfg.Transport = TransportSES
		cfg.SES = SESConfig{Region: "eu-central-1", AccessKeyID: "AKIDEXAMPLE", SecretAccessKey: "secret"}
		transport, err := cfg.NewTransport(ctx, log.Nop{})
		require.NoError(t, err)
		assert.Equal(t, "ses", transport.Name())
	})
	t.Run("invalid auth type", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.AuthType = "KERBEROS"
		_, err := cfg.NewTransport(ctx, log.Nop{})
		assert.ErrorIs(t, err, ErrUnsupportedAuthType)
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Transport = TransportNoop
		cfg.Layout = "rfc2046"
		cfg.LogLevel = "error"
		m, err := NewFromConfig(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, "noop", m.Transport().Name())
		assert.Equal(t, mailit.LayoutRFC2046, m.composer.Layout())
	})
	t.Run("options override the defaults", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Transport = TransportNoop
		composer := mailit.NewComposer()
		m, err := NewFromConfig(context.Background(), cfg, WithComposer(composer))
		require.NoError(t, err)
		assert.Same(t, composer, m.composer)
	})
	t.Run("invalid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Port = 0
		_, err := NewFromConfig(context.Background(), cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
	t.Run("end to end over SMTP", func(t *testing.T) {
		srv := startServer(t)
		cfg := DefaultConfig()
		cfg.Server = srv.Host()
		cfg.Port = srv.Port()
		cfg.TLSPolicy = "notls"
		cfg.LogLevel = "error"
		m, err := NewFromConfig(context.Background(), cfg)
		require.NoError(t, err)

		mail := mailit.NewMail()
		mail.SetFrom("sender@example.com")
		mail.SetTo("rcpt@example.com")
		mail.SetText("Hello")
		require.NoError(t, m.Send(context.Background(), mail))
		assert.Len(t, srv.Messages(), 1)
	})
}

func TestParseLayout(t *testing.T) {
	tests := []struct {
		name    string
		want    mailit.Layout
		wantErr bool
	}{
		{"", mailit.LayoutCompat, false},
		{"compat", mailit.LayoutCompat, false},
		{" RFC2046 ", mailit.LayoutRFC2046, false},
		{"mixed", mailit.LayoutCompat, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := ParseLayout(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, layout)
		})
	}
}
