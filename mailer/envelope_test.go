// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailit-go/mailit"
)

func TestNewEnvelope(t *testing.T) {
	m := mailit.NewMail()
	m.SetFrom("Toni Tester <toni.tester@example.com>")
	m.SetTo("Jane Doe <jane@example.com>", "john@example.com")
	m.AddHeader(mailit.HeaderCc, "Carl <carl@example.com>, JANE@example.com")
	m.SetBcc("hidden@example.com")

	envelope, err := NewEnvelope(m)
	require.NoError(t, err)
	assert.Equal(t, "toni.tester@example.com", envelope.From)
	assert.Equal(t, []string{"jane@example.com", "john@example.com", "carl@example.com", "hidden@example.com"},
		envelope.To)
}

func TestNewEnvelope_EncodedDisplayName(t *testing.T) {
	m := mailit.NewMail(mailit.WithCharset(mailit.CharsetISO88591))
	m.SetFrom(`"Jürgen Müller" <juergen@example.com>`)
	m.SetTo("Zoë <zoe@example.com>")

	envelope, err := NewEnvelope(m)
	require.NoError(t, err)
	assert.Equal(t, "juergen@example.com", envelope.From)
	assert.Equal(t, []string{"zoe@example.com"}, envelope.To)
}

func TestNewEnvelope_FirstFromWins(t *testing.T) {
	m := mailit.NewMail()
	m.AddHeader(mailit.HeaderFrom, "first@example.com, second@example.com")
	m.AddHeader(mailit.HeaderFrom, "third@example.com")
	m.SetTo("rcpt@example.com")

	envelope, err := NewEnvelope(m)
	require.NoError(t, err)
	assert.Equal(t, "first@example.com", envelope.From)
}

func TestNewEnvelope_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(m *mailit.Mail)
		wantErr error
	}{
		{
			"no sender",
			func(m *mailit.Mail) { m.SetTo("rcpt@example.com") },
			ErrNoSender,
		},
		{
			"no recipients",
			func(m *mailit.Mail) { m.SetFrom("sender@example.com") },
			ErrNoRecipients,
		},
		{
			"empty recipient header",
			func(m *mailit.Mail) {
				m.SetFrom("sender@example.com")
				m.AddHeader(mailit.HeaderCc, " ")
			},
			ErrNoRecipients,
		},
		{
			"invalid sender",
			func(m *mailit.Mail) {
				m.SetFrom("not an address")
				m.SetTo("rcpt@example.com")
			},
			ErrInvalidSender,
		},
		{
			"invalid recipient",
			func(m *mailit.Mail) {
				m.SetFrom("sender@example.com")
				m.AddHeader(mailit.HeaderCc, "<broken")
			},
			ErrInvalidRecipients,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mailit.NewMail()
			tt.setup(m)
			_, err := NewEnvelope(m)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
