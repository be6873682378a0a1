// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailer

import "github.com/emersion/go-sasl"

type xoauth2Client struct {
	username, token string
}

// newXOAuth2Client returns a sasl.Client that implements the XOAuth2 authentication
// mechanism as defined in the following specs:
//
// https://developers.google.com/gmail/imap/xoauth2-protocol
// https://learn.microsoft.com/en-us/exchange/client-developer/legacy-protocols/how-to-authenticate-an-imap-pop-smtp-application-by-using-oauth
func newXOAuth2Client(username, token string) sasl.Client {
	return &xoauth2Client{username, token}
}

func (a *xoauth2Client) Start() (string, []byte, error) {
	return "XOAUTH2", []byte("user=" + a.username + "\x01" + "auth=Bearer " + a.token + "\x01\x01"), nil
}

// Next answers the error challenge of a failed authentication with an empty response, so
// the server can send the final error reply.
func (a *xoauth2Client) Next(_ []byte) ([]byte, error) {
	return []byte(""), nil
}
