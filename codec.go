// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailit

import (
	"bytes"
	"mime/quotedprintable"
	"strings"
)

// upperhex is used for the =XX escapes of both codecs
const upperhex = "0123456789ABCDEF"

// EncodeQuotedPrintable encodes p as quoted-printable as specified in RFC 2045.
//
// Line breaks are normalized to CRLF and soft line breaks keep the encoded lines within
// 76 characters. A trailing line break, trailing whitespace and a trailing soft line
// break marker are removed, so the encoded body never ends in a dangling "=".
func EncodeQuotedPrintable(p []byte) string {
	buf := bytes.NewBuffer(make([]byte, 0, len(p)+len(p)/3))
	qpw := quotedprintable.NewWriter(buf)
	// Writes into a bytes.Buffer cannot fail
	_, _ = qpw.Write(p)
	_ = qpw.Close()

	encoded := buf.String()
	encoded = chomp(encoded)
	encoded = strings.TrimRight(encoded, " \t")
	return strings.TrimSuffix(encoded, "=")
}

// EncodeWordPayload returns the payload of an RFC 2047 "Q" encoded word for text in
// the given Charset. The caller wraps it as =?charset?Q?<payload>?=, see EncodeWord.
//
// Bytes below 128 other than "=" are kept, everything else becomes =XX. Afterwards
// "?" and "_" are escaped since they delimit encoded words, and spaces become "_".
func EncodeWordPayload(text string, charset Charset) string {
	raw := charset.Bytes(text)
	var sb strings.Builder
	sb.Grow(len(raw) * 3)
	for _, b := range raw {
		if b < 128 && b != '=' {
			sb.WriteByte(b)
			continue
		}
		sb.WriteByte('=')
		sb.WriteByte(upperhex[b>>4])
		sb.WriteByte(upperhex[b&0x0f])
	}

	payload := strings.TrimSuffix(chomp(sb.String()), "=")
	return encodedWordReplacer.Replace(payload)
}

// EncodeWord returns text as complete RFC 2047 encoded word: =?charset?Q?<payload>?=
func EncodeWord(text string, charset Charset) string {
	return "=?" + charset.String() + "?Q?" + EncodeWordPayload(text, charset) + "?="
}

// encodedWordReplacer escapes the structural characters of an encoded word. The
// replacements are applied in a single pass, so the "_" produced for a space is
// never escaped again.
var encodedWordReplacer = strings.NewReplacer("?", "=3F", "_", "=5F", " ", "_")

// chomp removes a single trailing line break (CRLF, LF or CR) from s.
func chomp(s string) string {
	switch {
	case strings.HasSuffix(s, "\r\n"):
		return s[:len(s)-2]
	case strings.HasSuffix(s, "\n"), strings.HasSuffix(s, "\r"):
		return s[:len(s)-1]
	default:
		return s
	}
}
