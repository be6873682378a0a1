// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailer

import (
	"crypto/hmac"
	"crypto/md5"
	"encoding/hex"

	"github.com/emersion/go-sasl"
)

// cramMD5Client is the sasl.Client for the "CRAM-MD5" mechanism as described in RFC 2195.
type cramMD5Client struct {
	username, secret string
}

func newCramMD5Client(username, secret string) sasl.Client {
	return &cramMD5Client{username: username, secret: secret}
}

// Start returns the mechanism name without an initial response.
func (a *cramMD5Client) Start() (string, []byte, error) {
	return "CRAM-MD5", nil, nil
}

// Next returns the username followed by the hex encoded HMAC-MD5 digest of the challenge.
func (a *cramMD5Client) Next(challenge []byte) ([]byte, error) {
	mac := hmac.New(md5.New, []byte(a.secret))
	mac.Write(challenge)
	digest := make([]byte, hex.EncodedLen(mac.Size()))
	hex.Encode(digest, mac.Sum(nil))
	return append([]byte(a.username+" "), digest...), nil
}
