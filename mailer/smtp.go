// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-smtp"

	"github.com/mailit-go/mailit/log"
)

// Defaults
const (
	// DefaultPort is the default connection port to the SMTP server
	DefaultPort = 25

	// DefaultPortSSL is the default connection port for SSL/TLS to the SMTP server
	DefaultPortSSL = 465

	// DefaultTimeout is the default connection timeout
	DefaultTimeout = time.Second * 15

	// DefaultTLSPolicy is the default STARTTLS policy
	DefaultTLSPolicy = TLSOpportunistic

	// DefaultTLSMinVersion is the minimum TLS version required for the connection
	DefaultTLSMinVersion = tls.VersionTLS12
)

// SMTPTransport option related errors
var (
	// ErrNoHostname is returned if the hostname of the SMTP server is empty
	ErrNoHostname = errors.New("hostname for SMTP server cannot be empty")

	// ErrInvalidPort is returned if the port is not within 1 and 65535
	ErrInvalidPort = errors.New("invalid port number")

	// ErrInvalidTimeout is returned if the timeout is not positive
	ErrInvalidTimeout = errors.New("timeout cannot be zero or negative")

	// ErrInvalidHELO is returned if the HELO/EHLO name is empty
	ErrInvalidHELO = errors.New("invalid HELO/EHLO value - must not be empty")

	// ErrInvalidTLSConfig is returned if a nil tls.Config is provided
	ErrInvalidTLSConfig = errors.New("invalid TLS config")
)

// DialContextFunc is a type to define custom DialContext function.
type DialContextFunc func(ctx context.Context, network, address string) (net.Conn, error)

// SMTPOption is a function type that modifies the configuration of an SMTPTransport.
type SMTPOption func(*SMTPTransport) error

// SMTPTransport delivers messages over a new SMTP connection per message.
type SMTPTransport struct {
	// dialContextFunc dials the server connection
	dialContextFunc DialContextFunc

	// debug enables logging of the SMTP conversation
	debug bool

	// helo is the name sent with the HELO/EHLO greeting
	helo string

	// host is the hostname of the SMTP server
	host string

	// logger receives the debug log and the delivery events
	logger log.Logger

	// password for SMTP AUTH; the bearer token for XOAUTH2
	password string

	port int

	// authType selects the SASL mechanism, SMTPAuthNoAuth disables authentication
	authType SMTPAuthType

	// ssl selects implicit TLS instead of STARTTLS
	ssl bool

	timeout   time.Duration
	tlsConfig *tls.Config
	tlsPolicy TLSPolicy

	// username for SMTP AUTH, falls back to the envelope sender if empty
	username string
}

// NewSMTPTransport returns an SMTPTransport for the SMTP server host.
//
// The HELO/EHLO name defaults to the local hostname, the TLS policy to
// TLSOpportunistic and authentication is disabled unless WithSMTPAuth is given.
func NewSMTPTransport(host string, opts ...SMTPOption) (*SMTPTransport, error) {
	t := &SMTPTransport{
		host:      host,
		port:      DefaultPort,
		timeout:   DefaultTimeout,
		tlsConfig: &tls.Config{ServerName: host, MinVersion: DefaultTLSMinVersion},
		tlsPolicy: DefaultTLSPolicy,
		logger:    log.Nop{},
	}
	if err := t.setDefaultHelo(); err != nil {
		return t, err
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(t); err != nil {
			return t, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if t.host == "" {
		return t, ErrNoHostname
	}
	return t, nil
}

// WithPort overrides the default connection port
func WithPort(port int) SMTPOption {
	return func(t *SMTPTransport) error {
		if port < 1 || port > 65535 {
			return ErrInvalidPort
		}
		t.port = port
		return nil
	}
}

// WithTimeout overrides the default connection timeout. The timeout bounds the whole
// delivery unless the context carries an earlier deadline.
func WithTimeout(timeout time.Duration) SMTPOption {
	return func(t *SMTPTransport) error {
		if timeout <= 0 {
			return ErrInvalidTimeout
		}
		t.timeout = timeout
		return nil
	}
}

// WithHELO overrides the name sent with the HELO/EHLO greeting
func WithHELO(helo string) SMTPOption {
	return func(t *SMTPTransport) error {
		if helo == "" {
			return ErrInvalidHELO
		}
		t.helo = helo
		return nil
	}
}

// WithTLSPolicy overrides the default STARTTLS policy
func WithTLSPolicy(policy TLSPolicy) SMTPOption {
	return func(t *SMTPTransport) error {
		t.tlsPolicy = policy
		return nil
	}
}

// WithTLSConfig overrides the default tls.Config used for STARTTLS and implicit TLS
func WithTLSConfig(config *tls.Config) SMTPOption {
	return func(t *SMTPTransport) error {
		if config == nil {
			return ErrInvalidTLSConfig
		}
		t.tlsConfig = config
		return nil
	}
}

// WithSSL tells the transport to use implicit TLS. The port is set to DefaultPortSSL
// unless it was changed before.
func WithSSL() SMTPOption {
	return func(t *SMTPTransport) error {
		t.ssl = true
		if t.port == DefaultPort {
			t.port = DefaultPortSSL
		}
		return nil
	}
}

// WithSMTPAuth enables SMTP AUTH with the given mechanism
func WithSMTPAuth(authType SMTPAuthType) SMTPOption {
	return func(t *SMTPTransport) error {
		t.authType = authType
		return nil
	}
}

// WithUsername sets the username for SMTP AUTH
func WithUsername(username string) SMTPOption {
	return func(t *SMTPTransport) error {
		t.username = username
		return nil
	}
}

// WithPassword sets the password for SMTP AUTH
func WithPassword(password string) SMTPOption {
	return func(t *SMTPTransport) error {
		t.password = password
		return nil
	}
}

// WithDialContextFunc overrides the function used to dial the server connection
func WithDialContextFunc(dial DialContextFunc) SMTPOption {
	return func(t *SMTPTransport) error {
		t.dialContextFunc = dial
		return nil
	}
}

// WithLogger overrides the default log.Logger that is used for debug logging
func WithLogger(logger log.Logger) SMTPOption {
	return func(t *SMTPTransport) error {
		if logger != nil {
			t.logger = logger
		}
		return nil
	}
}

// WithDebugLog tells the transport to log the SMTP conversation with log.LevelDebug. If
// no logger was set with WithLogger, a log.Stdlog writing to os.Stderr is used.
func WithDebugLog() SMTPOption {
	return func(t *SMTPTransport) error {
		t.debug = true
		if _, ok := t.logger.(log.Nop); ok {
			t.logger = log.New(os.Stderr, log.LevelDebug)
		}
		return nil
	}
}

// Name returns "smtp".
func (t *SMTPTransport) Name() string {
	return "smtp"
}

// ServerAddr returns the host:port of the SMTP server.
func (t *SMTPTransport) ServerAddr() string {
	return net.JoinHostPort(t.host, strconv.Itoa(t.port))
}

// TLSPolicy returns the configured TLSPolicy.
func (t *SMTPTransport) TLSPolicy() TLSPolicy {
	return t.tlsPolicy
}

// Send connects to the SMTP server, negotiates TLS, authenticates and delivers message
// to the recipients of envelope. A new connection is used for every call.
func (t *SMTPTransport) Send(ctx context.Context, envelope Envelope, message []byte) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	client, conn, err := t.dial(ctx)
	if err != nil {
		return newSendError(ErrConnect, err)
	}
	defer func() {
		_ = client.Close()
	}()
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	if err = t.startTLS(client); err != nil {
		return newSendError(ErrTLS, err)
	}
	if err = ctx.Err(); err != nil {
		return newSendError(ErrAuth, err)
	}
	if err = t.auth(client, envelope.From); err != nil {
		return newSendError(ErrAuth, err)
	}
	if err = ctx.Err(); err != nil {
		return newSendError(ErrSMTPMailFrom, err, envelope.To...)
	}
	if err = t.deliver(client, envelope, message); err != nil {
		return err
	}
	if err = client.Quit(); err != nil {
		t.logger.Warnf(log.Log{Direction: log.DirNone, Format: "failed to send QUIT to %s: %s",
			Messages: []interface{}{t.ServerAddr(), err}})
	}
	return nil
}

// dial establishes the connection and reads the server greeting. The deadline of ctx is
// applied to the connection, so every later command is bounded by it as well.
func (t *SMTPTransport) dial(ctx context.Context) (*smtp.Client, net.Conn, error) {
	dial := t.dialContextFunc
	if dial == nil {
		dialer := &net.Dialer{}
		dial = dialer.DialContext
		if t.ssl {
			tlsDialer := &tls.Dialer{NetDialer: dialer, Config: t.tlsConfig}
			dial = tlsDialer.DialContext
		}
	}

	conn, err := dial(ctx, "tcp", t.ServerAddr())
	if err != nil {
		return nil, nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err = conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("failed to set connection deadline: %w", err)
		}
	}

	client, err := smtp.NewClient(conn, t.host)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	// The client replaces the connection deadline with these per-command timeouts
	if deadline, ok := ctx.Deadline(); ok {
		client.CommandTimeout = time.Until(deadline)
		client.SubmissionTimeout = time.Until(deadline)
	}
	if t.debug {
		client.DebugWriter = &debugWriter{logger: t.logger}
	}
	if err = client.Hello(t.helo); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return client, conn, nil
}

// startTLS makes sure that the STARTTLS requirements of the TLSPolicy are satisfied
func (t *SMTPTransport) startTLS(client *smtp.Client) error {
	if t.ssl || t.tlsPolicy == NoTLS {
		return nil
	}
	supported, _ := client.Extension("STARTTLS")
	if !supported {
		if t.tlsPolicy == TLSMandatory {
			return fmt.Errorf("STARTTLS mode set to: %q, but target host does not support STARTTLS",
				t.tlsPolicy)
		}
		return nil
	}
	return client.StartTLS(t.tlsConfig)
}

// auth performs SMTP AUTH if an SMTPAuthType is configured. The username falls back to
// the envelope sender.
func (t *SMTPTransport) auth(client *smtp.Client, sender string) error {
	if t.authType == SMTPAuthNoAuth {
		return nil
	}
	supported, mechanisms := client.Extension("AUTH")
	if !supported {
		return errors.New("server does not support SMTP AUTH")
	}
	if !containsMechanism(mechanisms, t.authType) {
		return fmt.Errorf("%w: %s", ErrAuthNotSupported, t.authType)
	}

	username := t.username
	if username == "" {
		username = sender
	}
	_, encrypted := client.TLSConnectionState()
	saslClient, err := newSASLClient(t.authType, username, t.password, authServer{name: t.host, tls: encrypted})
	if err != nil {
		return err
	}
	if err = client.Auth(saslClient); err != nil {
		return fmt.Errorf("SMTP AUTH failed: %w", err)
	}
	return nil
}

// deliver runs the MAIL FROM, RCPT TO and DATA transaction.
func (t *SMTPTransport) deliver(client *smtp.Client, envelope Envelope, message []byte) error {
	if err := client.Mail(envelope.From, nil); err != nil {
		return newSendError(ErrSMTPMailFrom, err, envelope.To...)
	}

	var rcptErrs []error
	var failed []string
	for _, rcpt := range envelope.To {
		if err := client.Rcpt(rcpt); err != nil {
			rcptErrs = append(rcptErrs, err)
			failed = append(failed, rcpt)
		}
	}
	if len(failed) > 0 {
		if err := client.Reset(); err != nil {
			rcptErrs = append(rcptErrs, err)
		}
		return newSendError(ErrSMTPRcptTo, errors.Join(rcptErrs...), failed...)
	}

	writer, err := client.Data()
	if err != nil {
		return newSendError(ErrSMTPData, err, envelope.To...)
	}
	if _, err = writer.Write(message); err != nil {
		_ = writer.Close()
		return newSendError(ErrWriteContent, err, envelope.To...)
	}
	if err = writer.Close(); err != nil {
		return newSendError(ErrSMTPDataClose, err, envelope.To...)
	}
	return nil
}

// setDefaultHelo retrieves the current hostname and sets it as HELO/EHLO hostname
func (t *SMTPTransport) setDefaultHelo() error {
	hostname, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("failed to read local hostname: %w", err)
	}
	t.helo = hostname
	return nil
}

// containsMechanism reports whether the AUTH extension parameter lists authType.
func containsMechanism(mechanisms string, authType SMTPAuthType) bool {
	for _, mechanism := range strings.Fields(mechanisms) {
		if strings.EqualFold(mechanism, string(authType)) {
			return true
		}
	}
	return false
}

// replyRegex matches a server reply line
var replyRegex = regexp.MustCompile(`^\d{3}[ -]`)

// debugWriter logs the SMTP conversation line by line. Server replies are recognized by
// their reply code; everything else is logged as client traffic.
type debugWriter struct {
	logger log.Logger
	buf    []byte
}

// Write buffers p and logs every complete line.
func (w *debugWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		idx := bytes.IndexByte(w.buf, '\n')
		if idx < 0 {
			return len(p), nil
		}
		line := strings.TrimRight(string(w.buf[:idx]), "\r")
		w.buf = w.buf[idx+1:]

		direction := log.DirClientToServer
		if replyRegex.MatchString(line) {
			direction = log.DirServerToClient
		}
		w.logger.Debugf(log.Log{Direction: direction, Format: "%s", Messages: []interface{}{line}})
	}
}
