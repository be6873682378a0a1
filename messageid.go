// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailit

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultMessageIDDomain is used for generated Message-IDs when the Mail has no "From" header.
const DefaultMessageIDDomain = "localhost"

// MessageIDGenerator generates the "Message-ID" header value for a Mail that has none.
type MessageIDGenerator interface {
	MessageID(m *Mail, t time.Time) string
}

// MessageIDGeneratorFunc is an adapter to use an ordinary function as MessageIDGenerator.
type MessageIDGeneratorFunc func(m *Mail, t time.Time) string

// MessageID calls f(m, t).
func (f MessageIDGeneratorFunc) MessageID(m *Mail, t time.Time) string {
	return f(m, t)
}

// uuidMessageIDGenerator is the default MessageIDGenerator.
type uuidMessageIDGenerator struct {
	pid int
}

// NewMessageIDGenerator returns the default MessageIDGenerator. Generated IDs have the form
// <seconds.fraction.pid.uuid@domain>, where domain is the domain part of the first "From"
// header of the Mail or DefaultMessageIDDomain.
func NewMessageIDGenerator() MessageIDGenerator {
	return &uuidMessageIDGenerator{pid: os.Getpid()}
}

// MessageID satisfies the MessageIDGenerator interface.
func (g *uuidMessageIDGenerator) MessageID(m *Mail, t time.Time) string {
	seconds := float64(t.UnixNano()) / float64(time.Second)
	return fmt.Sprintf("<%f.%d.%s@%s>", seconds, g.pid, uuid.NewString(), messageIDDomain(m))
}

// messageIDDomain returns the text after the last "@" of the first "From" header of m.
func messageIDDomain(m *Mail) string {
	if m == nil {
		return DefaultMessageIDDomain
	}
	from := m.From()
	idx := strings.LastIndex(from, "@")
	if idx < 0 {
		return DefaultMessageIDDomain
	}
	domain := strings.TrimRight(from[idx+1:], "> \t")
	if domain == "" {
		return DefaultMessageIDDomain
	}
	return domain
}
