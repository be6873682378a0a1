// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailer

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/mail"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/mailit-go/mailit"
)

var (
	// ErrNoSender is returned if the Mail has no "From" header.
	ErrNoSender = errors.New("no sender address")

	// ErrNoRecipients is returned if the Mail has no "To", "Cc" or "Bcc" header.
	ErrNoRecipients = errors.New("no recipient addresses")

	// ErrInvalidSender is returned if the "From" header cannot be parsed.
	ErrInvalidSender = errors.New("invalid sender address")

	// ErrInvalidRecipients is returned if a "To", "Cc" or "Bcc" header cannot be parsed.
	ErrInvalidRecipients = errors.New("invalid recipient addresses")
)

// Envelope is the SMTP envelope of a Mail: the reverse path for MAIL FROM and the
// forward paths for RCPT TO.
type Envelope struct {
	From string
	To   []string
}

// addressParser decodes RFC 2047 encoded display names in any charset of the IANA index
var addressParser = &mail.AddressParser{
	WordDecoder: &mime.WordDecoder{CharsetReader: charsetReader},
}

// NewEnvelope derives the Envelope from the headers of m. The sender is the first address
// of the first "From" header, the recipients are the addresses of all "To", "Cc" and
// "Bcc" headers in header order, without duplicates.
func NewEnvelope(m *mailit.Mail) (Envelope, error) {
	var envelope Envelope
	var recipients []string
	for _, field := range m.Headers().Fields() {
		name := field.Name.String()
		switch {
		case strings.EqualFold(name, mailit.HeaderFrom.String()):
			if envelope.From != "" {
				continue
			}
			addrs, err := addressParser.ParseList(field.Value)
			if err != nil {
				return envelope, fmt.Errorf("%w: %s header: %w", ErrInvalidSender, name, err)
			}
			if len(addrs) > 0 {
				envelope.From = addrs[0].Address
			}
		case strings.EqualFold(name, mailit.HeaderTo.String()),
			strings.EqualFold(name, mailit.HeaderCc.String()),
			strings.EqualFold(name, mailit.HeaderBcc.String()):
			if strings.TrimSpace(field.Value) == "" {
				continue
			}
			addrs, err := addressParser.ParseList(field.Value)
			if err != nil {
				return envelope, fmt.Errorf("%w: %s header: %w", ErrInvalidRecipients, name, err)
			}
			for _, addr := range addrs {
				recipients = appendUnique(recipients, addr.Address)
			}
		}
	}
	if envelope.From == "" {
		return envelope, ErrNoSender
	}
	if len(recipients) == 0 {
		return envelope, ErrNoRecipients
	}
	envelope.To = recipients
	return envelope, nil
}

// appendUnique appends addr unless it is already in list, comparing case-insensitively.
func appendUnique(list []string, addr string) []string {
	for _, existing := range list {
		if strings.EqualFold(existing, addr) {
			return list
		}
	}
	return append(list, addr)
}

// charsetReader returns a UTF-8 reader for input in charset.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset: %q", charset)
	}
	return enc.NewDecoder().Reader(input), nil
}
