// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailer

import (
	"errors"

	"github.com/Azure/go-ntlmssp"
	"github.com/emersion/go-sasl"
)

// ErrNTLMChallengeEmpty is returned when the NTLMv2 ChallengeMessage received from the server is empty.
var ErrNTLMChallengeEmpty = errors.New("NTLMv2 ChallengeMessage is empty")

// ntlmClient is the sasl.Client for NTLMv2. A username of the form "DOMAIN\user" or
// "user@domain" selects the domain.
type ntlmClient struct {
	domain, password, username, workstation string
	domainNeeded                            bool
}

func newNTLMClient(username, password, workstation string) sasl.Client {
	user, domain, domainNeeded := ntlmssp.GetDomain(username)
	return &ntlmClient{
		domain:       domain,
		password:     password,
		username:     user,
		workstation:  workstation,
		domainNeeded: domainNeeded,
	}
}

// Start returns the negotiation message as initial response.
func (a *ntlmClient) Start() (string, []byte, error) {
	negotiateMessage, err := ntlmssp.NewNegotiateMessage(a.domain, a.workstation)
	return "NTLM", negotiateMessage, err
}

// Next processes the ChallengeMessage of the server and returns the AuthenticateMessage.
func (a *ntlmClient) Next(challenge []byte) ([]byte, error) {
	if len(challenge) == 0 {
		return nil, ErrNTLMChallengeEmpty
	}
	return ntlmssp.ProcessChallenge(challenge, a.username, a.password, a.domainNeeded)
}
