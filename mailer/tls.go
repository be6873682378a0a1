// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailer

import (
	"fmt"
	"strings"
)

// TLSPolicy describes how the SMTPTransport uses STARTTLS.
type TLSPolicy int

const (
	// TLSMandatory requires that the connection to the server is encrypted using STARTTLS.
	// If the server does not support STARTTLS the delivery fails with an error.
	TLSMandatory TLSPolicy = iota

	// TLSOpportunistic tries to establish an encrypted connection via STARTTLS. If the
	// server does not support it, the delivery falls back to plaintext transmission.
	TLSOpportunistic

	// NoTLS forces the transaction to be not encrypted
	NoTLS
)

// String satisfies the fmt.Stringer interface for the TLSPolicy type.
func (p TLSPolicy) String() string {
	switch p {
	case TLSMandatory:
		return "TLSMandatory"
	case TLSOpportunistic:
		return "TLSOpportunistic"
	case NoTLS:
		return "NoTLS"
	default:
		return "UnknownPolicy"
	}
}

// ParseTLSPolicy returns the TLSPolicy for its String form, ignoring case. The short
// forms "mandatory", "opportunistic" and "none" are accepted as well.
func ParseTLSPolicy(value string) (TLSPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "tlsmandatory", "mandatory":
		return TLSMandatory, nil
	case "tlsopportunistic", "opportunistic", "":
		return TLSOpportunistic, nil
	case "notls", "none":
		return NoTLS, nil
	default:
		return NoTLS, fmt.Errorf("%w: %q", ErrInvalidTLSPolicy, value)
	}
}
