// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailer

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/emersion/go-sasl"
)

// SMTPAuthType represents a string to any SMTP AUTH type
type SMTPAuthType string

// Supported SMTP AUTH types
const (
	// SMTPAuthCramMD5 is the "CRAM-MD5" SASL authentication mechanism as described in RFC 4954
	SMTPAuthCramMD5 SMTPAuthType = "CRAM-MD5"

	// SMTPAuthLogin is the "LOGIN" SASL authentication mechanism
	SMTPAuthLogin SMTPAuthType = "LOGIN"

	// SMTPAuthNoAuth is equivalent to performing no authentication at all.
	SMTPAuthNoAuth SMTPAuthType = ""

	// SMTPAuthNTLM is the "NTLM" authentication mechanism as used by Microsoft Exchange.
	SMTPAuthNTLM SMTPAuthType = "NTLM"

	// SMTPAuthPlain is the "PLAIN" authentication mechanism as described in RFC 4616
	SMTPAuthPlain SMTPAuthType = "PLAIN"

	// SMTPAuthXOAUTH2 is the "XOAUTH2" SASL authentication mechanism.
	// https://developers.google.com/gmail/imap/xoauth2-protocol
	SMTPAuthXOAUTH2 SMTPAuthType = "XOAUTH2"

	// SMTPAuthSCRAMSHA1 is the "SCRAM-SHA-1" SASL authentication mechanism as described in RFC 5802
	SMTPAuthSCRAMSHA1 SMTPAuthType = "SCRAM-SHA-1"

	// SMTPAuthSCRAMSHA256 is the "SCRAM-SHA-256" SASL authentication mechanism as described in RFC 7677
	SMTPAuthSCRAMSHA256 SMTPAuthType = "SCRAM-SHA-256"
)

// SMTP Auth related static errors
var (
	// ErrUnencrypted is returned if PLAIN or LOGIN would send credentials over an
	// unencrypted connection to a host other than localhost.
	ErrUnencrypted = errors.New("unencrypted connection")

	// ErrUnsupportedAuthType is returned for an SMTPAuthType without a SASL client.
	ErrUnsupportedAuthType = errors.New("unsupported SMTP AUTH type")

	// ErrAuthNotSupported is returned if the server does not advertise the configured
	// SMTP AUTH type.
	ErrAuthNotSupported = errors.New("server does not support SMTP AUTH type")

	// ErrUnexpectedServerChallenge is returned if the server sends a challenge to a
	// mechanism that does not expect one.
	ErrUnexpectedServerChallenge = errors.New("unexpected server challenge")

	// ErrUnexpectedServerResponse is returned if a challenge of the server cannot be parsed.
	ErrUnexpectedServerResponse = errors.New("unexpected server response")

	// ErrInvalidTLSPolicy is returned by ParseTLSPolicy for unknown values.
	ErrInvalidTLSPolicy = errors.New("invalid TLS policy")
)

// ParseSMTPAuthType returns the SMTPAuthType for value, ignoring case. "none" and the
// empty string map to SMTPAuthNoAuth.
func ParseSMTPAuthType(value string) (SMTPAuthType, error) {
	authType := SMTPAuthType(strings.ToUpper(strings.TrimSpace(value)))
	switch authType {
	case "NONE":
		return SMTPAuthNoAuth, nil
	case SMTPAuthNoAuth, SMTPAuthCramMD5, SMTPAuthLogin, SMTPAuthNTLM, SMTPAuthPlain,
		SMTPAuthXOAUTH2, SMTPAuthSCRAMSHA1, SMTPAuthSCRAMSHA256:
		return authType, nil
	default:
		return SMTPAuthNoAuth, fmt.Errorf("%w: %q", ErrUnsupportedAuthType, value)
	}
}

// authServer carries the facts about the connection that decide whether credentials
// may be sent in the clear.
type authServer struct {
	name string
	tls  bool
}

// newSASLClient returns the SASL client for authType. For SMTPAuthXOAUTH2 the password
// is the bearer token. PLAIN and LOGIN fail with ErrUnencrypted on unencrypted connections
// to hosts other than localhost.
func newSASLClient(authType SMTPAuthType, username, password string, server authServer) (sasl.Client, error) {
	switch authType {
	case SMTPAuthPlain, SMTPAuthLogin:
		if !server.tls && !isLocalhost(server.name) {
			return nil, ErrUnencrypted
		}
		if authType == SMTPAuthPlain {
			return sasl.NewPlainClient("", username, password), nil
		}
		return newLoginClient(username, password), nil
	case SMTPAuthCramMD5:
		return newCramMD5Client(username, password), nil
	case SMTPAuthXOAUTH2:
		return newXOAuth2Client(username, password), nil
	case SMTPAuthSCRAMSHA1:
		return newScramSHA1Client(username, password), nil
	case SMTPAuthSCRAMSHA256:
		return newScramSHA256Client(username, password), nil
	case SMTPAuthNTLM:
		return newNTLMClient(username, password, ""), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAuthType, authType)
	}
}

// isLocalhost reports whether host names the loopback interface.
func isLocalhost(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
