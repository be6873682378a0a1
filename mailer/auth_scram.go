// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailer

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"io"
	"strconv"
	"strings"

	"github.com/emersion/go-sasl"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/secure/precis"
)

// scramClient represents a SCRAM (Salted Challenge Response Authentication Mechanism) client
// without channel binding and satisfies the sasl.Client interface.
type scramClient struct {
	username, password, algorithm               string
	firstBareMsg, nonce, saltedPwd, authMessage []byte
	iterations                                  int
	h                                           func() hash.Hash
	random                                      io.Reader
}

func newScramSHA1Client(username, password string) sasl.Client {
	return &scramClient{
		username:  username,
		password:  password,
		algorithm: "SCRAM-SHA-1",
		h:         sha1.New,
		random:    rand.Reader,
	}
}

func newScramSHA256Client(username, password string) sasl.Client {
	return &scramClient{
		username:  username,
		password:  password,
		algorithm: "SCRAM-SHA-256",
		h:         sha256.New,
		random:    rand.Reader,
	}
}

// Start returns the algorithm and the client-first message as initial response.
func (a *scramClient) Start() (string, []byte, error) {
	a.reset()
	msg, err := a.initialClientMessage()
	if err != nil {
		return "", nil, err
	}
	return a.algorithm, msg, nil
}

// Next answers the server-first message with the client proof and verifies the server
// signature of the server-final message.
func (a *scramClient) Next(challenge []byte) ([]byte, error) {
	var resp []byte
	var err error
	switch {
	case bytes.HasPrefix(challenge, []byte("r=")):
		resp, err = a.handleServerFirstResponse(challenge)
	case bytes.HasPrefix(challenge, []byte("v=")):
		resp, err = a.handleServerValidationMessage(challenge)
	default:
		err = fmt.Errorf("%w: %s", ErrUnexpectedServerResponse, string(challenge))
	}
	if err != nil {
		a.reset()
		return nil, err
	}
	return resp, nil
}

// reset clears all authentication-related properties of the client.
func (a *scramClient) reset() {
	a.nonce = nil
	a.firstBareMsg = nil
	a.saltedPwd = nil
	a.authMessage = nil
	a.iterations = 0
}

// initialClientMessage generates the client-first message including a random nonce.
func (a *scramClient) initialClientMessage() ([]byte, error) {
	username, err := a.normalizeUsername()
	if err != nil {
		return nil, fmt.Errorf("username normalization failed: %w", err)
	}

	nonceBuffer := make([]byte, 24)
	if _, err := io.ReadFull(a.random, nonceBuffer); err != nil {
		return nil, fmt.Errorf("unable to generate client secret: %w", err)
	}
	a.nonce = make([]byte, base64.StdEncoding.EncodedLen(len(nonceBuffer)))
	base64.StdEncoding.Encode(a.nonce, nonceBuffer)

	a.firstBareMsg = []byte("n=" + username + ",r=" + string(a.nonce))
	return []byte("n,," + string(a.firstBareMsg)), nil
}

// handleServerFirstResponse processes the server-first message and returns the
// client-final message.
func (a *scramClient) handleServerFirstResponse(challenge []byte) ([]byte, error) {
	parts := bytes.Split(challenge, []byte(","))
	if len(parts) < 3 {
		return nil, errors.New("not enough fields in the first server response")
	}
	if !bytes.HasPrefix(parts[1], []byte("s=")) {
		return nil, errors.New("second part of the server response does not start with s=")
	}
	if !bytes.HasPrefix(parts[2], []byte("i=")) {
		return nil, errors.New("third part of the server response does not start with i=")
	}

	combinedNonce := parts[0][2:]
	if len(a.nonce) == 0 || !bytes.HasPrefix(combinedNonce, a.nonce) {
		return nil, errors.New("server nonce does not start with our nonce")
	}
	a.nonce = combinedNonce

	salt, err := base64.StdEncoding.DecodeString(string(parts[1][2:]))
	if err != nil {
		return nil, fmt.Errorf("invalid encoded salt: %w", err)
	}
	iterations, err := strconv.Atoi(string(parts[2][2:]))
	if err != nil {
		return nil, fmt.Errorf("invalid iterations: %w", err)
	}
	a.iterations = iterations

	password, err := precis.OpaqueString.String(a.password)
	if err != nil {
		return nil, fmt.Errorf("unable to normalize password: %w", err)
	}
	a.saltedPwd = pbkdf2.Key([]byte(password), salt, a.iterations, a.h().Size(), a.h)

	msgWithoutProof := []byte("c=biws,r=" + string(a.nonce))
	a.authMessage = []byte(string(a.firstBareMsg) + "," + string(challenge) + "," + string(msgWithoutProof))
	return []byte(string(msgWithoutProof) + ",p=" + string(a.computeClientProof())), nil
}

// handleServerValidationMessage verifies the signature of the server-final message.
func (a *scramClient) handleServerValidationMessage(challenge []byte) ([]byte, error) {
	if a.saltedPwd == nil {
		return nil, errors.New("server signature received before the server-first message")
	}
	if !hmac.Equal(challenge[2:], a.computeServerSignature()) {
		return nil, errors.New("invalid server signature")
	}
	return []byte(""), nil
}

func (a *scramClient) computeHMAC(key, msg []byte) []byte {
	mac := hmac.New(a.h, key)
	mac.Write(msg)
	return mac.Sum(nil)
}

func (a *scramClient) computeHash(key []byte) []byte {
	hasher := a.h()
	hasher.Write(key)
	return hasher.Sum(nil)
}

// computeClientProof returns the base64 encoded ClientKey XOR ClientSignature.
func (a *scramClient) computeClientProof() []byte {
	clientKey := a.computeHMAC(a.saltedPwd, []byte("Client Key"))
	storedKey := a.computeHash(clientKey)
	clientSignature := a.computeHMAC(storedKey, a.authMessage)
	clientProof := make([]byte, len(clientSignature))
	for i := range clientSignature {
		clientProof[i] = clientKey[i] ^ clientSignature[i]
	}
	buf := make([]byte, base64.StdEncoding.EncodedLen(len(clientProof)))
	base64.StdEncoding.Encode(buf, clientProof)
	return buf
}

// computeServerSignature returns the base64 encoded server signature.
func (a *scramClient) computeServerSignature() []byte {
	serverKey := a.computeHMAC(a.saltedPwd, []byte("Server Key"))
	serverSignature := a.computeHMAC(serverKey, a.authMessage)
	buf := make([]byte, base64.StdEncoding.EncodedLen(len(serverSignature)))
	base64.StdEncoding.Encode(buf, serverSignature)
	return buf
}

// normalizeUsername escapes "=" and "," as required by RFC 5802 section 5.1 and prepares
// the username with the OpaqueString profile of RFC 8265, which obsoletes SASLprep.
func (a *scramClient) normalizeUsername() (string, error) {
	replacer := strings.NewReplacer("=", "=3D", ",", "=2C")
	username, err := precis.OpaqueString.String(replacer.Replace(a.username))
	if err != nil {
		return "", fmt.Errorf("unable to normalize username: %w", err)
	}
	return username, nil
}
