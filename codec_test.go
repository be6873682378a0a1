// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailit

import (
	"strings"
	"testing"
)

func TestEncodeWordPayload(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		charset Charset
		want    string
	}{
		{"plain ASCII with space", "Test Subject", CharsetUTF8, "Test_Subject"},
		{"structural characters and multi-byte rune", "a?b=c_d €", CharsetUTF8, "a=3Fb=3Dc=5Fd_=E2=82=AC"},
		{"scandinavian", "äääööö", CharsetUTF8, "=C3=A4=C3=A4=C3=A4=C3=B6=C3=B6=C3=B6"},
		{
			"question mark, equal sign and underscore",
			"My email subject has a ? in it and also an = and a _ too... Also some non-quoted junk ()!@#{$%}",
			CharsetUTF8,
			"My_email_subject_has_a_=3F_in_it_and_also_an_=3D_and_a_=5F_too..._Also_some_non-quoted_junk_()!@#{$%}",
		},
		{"latin-1 transcoding", "Grüße", CharsetISO88591, "Gr=FC=DFe"},
		{"unsupported rune is replaced", "a€", CharsetISO88591, "a\x1a"},
		{"unknown charset passes bytes through", "ä", Charset("x-unknown"), "=C3=A4"},
		{"empty text", "", CharsetUTF8, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeWordPayload(tt.text, tt.charset); got != tt.want {
				t.Errorf("EncodeWordPayload failed. want: %q, got: %q", tt.want, got)
			}
		})
	}
}

func TestEncodeWord(t *testing.T) {
	t.Run("EncodeWord wraps the payload", func(t *testing.T) {
		want := "=?utf-8?Q?Test_Subject?="
		if got := EncodeWord("Test Subject", CharsetUTF8); got != want {
			t.Errorf("EncodeWord failed. want: %s, got: %s", want, got)
		}
	})
	t.Run("EncodeWord uses the charset name", func(t *testing.T) {
		want := "=?iso-8859-1?Q?Gr=FC=DFe?="
		if got := EncodeWord("Grüße", CharsetISO88591); got != want {
			t.Errorf("EncodeWord failed. want: %s, got: %s", want, got)
		}
	})
	t.Run("EncodeWord output never contains a space", func(t *testing.T) {
		if got := EncodeWord("  spaced   out  ", CharsetUTF8); strings.Contains(got, " ") {
			t.Errorf("EncodeWord output contains a space: %q", got)
		}
	})
}

func TestEncodeQuotedPrintable(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "Hello World", "Hello World"},
		{"line feeds become CRLF", "This is a test message with\na few\n\nlines.", "This is a test message with\r\na few\r\n\r\nlines."},
		{"equal sign is escaped", `<a href="http://google.com">click here</a>`, `<a href=3D"http://google.com">click here</a>`},
		{"non-ASCII bytes are escaped", "Grüße", "Gr=C3=BC=C3=9Fe"},
		{"trailing line break is removed", "Hello\n", "Hello"},
		{"empty input", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeQuotedPrintable([]byte(tt.in)); got != tt.want {
				t.Errorf("EncodeQuotedPrintable failed. want: %q, got: %q", tt.want, got)
			}
		})
	}
	t.Run("long lines are wrapped with soft line breaks", func(t *testing.T) {
		encoded := EncodeQuotedPrintable([]byte(strings.Repeat("abcdefghij", 30)))
		lines := strings.Split(encoded, "\r\n")
		if len(lines) < 4 {
			t.Fatalf("expected at least 4 lines, got: %d", len(lines))
		}
		for i, line := range lines {
			if len(line) > MaxBodyLength {
				t.Errorf("line %d exceeds %d characters: %d", i, MaxBodyLength, len(line))
			}
			if i < len(lines)-1 && !strings.HasSuffix(line, "=") {
				t.Errorf("line %d does not end with a soft line break: %q", i, line)
			}
		}
		if strings.HasSuffix(encoded, "=") {
			t.Errorf("encoded output ends with a dangling soft line break")
		}
		if got := strings.ReplaceAll(encoded, "=\r\n", ""); got != strings.Repeat("abcdefghij", 30) {
			t.Errorf("unwrapped output does not match input: %q", got)
		}
	})
}

func TestChomp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc\r\n", "abc"},
		{"abc\n", "abc"},
		{"abc\r", "abc"},
		{"abc\r\n\r\n", "abc\r\n"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := chomp(tt.in); got != tt.want {
				t.Errorf("chomp failed. want: %q, got: %q", tt.want, got)
			}
		})
	}
}
