// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailer

import (
	"fmt"

	"github.com/emersion/go-sasl"
)

const (
	// LoginXUsernameChallenge represents the Username Challenge response sent by the SMTP server per the AUTH LOGIN
	// extension.
	//
	// See: https://learn.microsoft.com/en-us/openspecs/exchange_server_protocols/ms-xlogin/.
	LoginXUsernameChallenge = "Username:"

	// LoginXPasswordChallenge represents the Password Challenge response sent by the SMTP server per the AUTH LOGIN
	// extension.
	LoginXPasswordChallenge = "Password:"

	// LoginXDraftUsernameChallenge represents the Username Challenge response sent by the SMTP server per the IETF
	// draft AUTH LOGIN extension.
	//
	// See: https://datatracker.ietf.org/doc/html/draft-murchison-sasl-login-00.
	LoginXDraftUsernameChallenge = "User Name\x00"

	// LoginXDraftPasswordChallenge represents the Password Challenge response sent by the SMTP server per the IETF
	// draft AUTH LOGIN extension.
	LoginXDraftPasswordChallenge = "Password\x00"
)

// loginClient is the sasl.Client for the "LOGIN" mechanism as it is used by MS Outlook. The
// username and the password are sent in two separate responses.
type loginClient struct {
	username, password string
}

func newLoginClient(username, password string) sasl.Client {
	return &loginClient{username: username, password: password}
}

// Start returns the mechanism name without an initial response.
func (a *loginClient) Start() (string, []byte, error) {
	return "LOGIN", nil, nil
}

// Next answers the username and password challenges of the server.
func (a *loginClient) Next(challenge []byte) ([]byte, error) {
	switch string(challenge) {
	case LoginXUsernameChallenge, LoginXDraftUsernameChallenge:
		return []byte(a.username), nil
	case LoginXPasswordChallenge, LoginXDraftPasswordChallenge:
		return []byte(a.password), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedServerResponse, string(challenge))
	}
}
