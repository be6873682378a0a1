// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailit

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// Charset represents the single text encoding of a Mail. It is applied to the subject,
// to address display names and to the text and HTML body parts.
type Charset string

// List of common charsets
const (
	// CharsetUTF8 represents the "UTF-8" charset and is the default for a new Mail.
	CharsetUTF8 Charset = "utf-8"

	// CharsetASCII represents the "US-ASCII" charset.
	CharsetASCII Charset = "us-ascii"

	// CharsetISO88591 represents the "ISO-8859-1" (Latin-1) charset.
	CharsetISO88591 Charset = "iso-8859-1"

	// CharsetISO885915 represents the "ISO-8859-15" (Latin-9) charset.
	CharsetISO885915 Charset = "iso-8859-15"

	// CharsetWindows1252 represents the "windows-1252" charset.
	CharsetWindows1252 Charset = "windows-1252"

	// CharsetKOI8R represents the "KOI8-R" charset.
	CharsetKOI8R Charset = "koi8-r"

	// CharsetISO2022JP represents the "ISO-2022-JP" charset.
	CharsetISO2022JP Charset = "iso-2022-jp"
)

// String satisfies the fmt.Stringer interface for the Charset type.
func (c Charset) String() string {
	return string(c)
}

// Bytes returns the byte representation of s in the Charset.
//
// Go strings are UTF-8, so UTF-8 and US-ASCII are returned as is. Any other charset
// is looked up in the IANA index; runes the charset cannot represent are replaced by
// the charset's replacement character. Unknown charset names leave s unchanged, which
// keeps composition total.
func (c Charset) Bytes(s string) []byte {
	if c.isIdentity() {
		return []byte(s)
	}
	enc, err := ianaindex.MIME.Encoding(string(c))
	if err != nil || enc == nil {
		return []byte(s)
	}
	out, err := encoding.ReplaceUnsupported(enc.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}

// isIdentity reports whether the Charset shares its byte representation with Go strings.
func (c Charset) isIdentity() bool {
	switch strings.ToLower(string(c)) {
	case "", "utf-8", "utf8", "us-ascii", "ascii":
		return true
	default:
		return false
	}
}
