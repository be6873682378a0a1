// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailit

import (
	"fmt"
	"regexp"
)

var (
	// addressRegex matches "<phrase> <angle-address>"
	addressRegex = regexp.MustCompile(`^(\S.*)\s+(<.*>)$`)

	// quotedPhraseRegex matches a phrase wrapped in single or double quotes
	quotedPhraseRegex = regexp.MustCompile(`^['"](.*)['"]$`)
)

// FormatAddress encodes the display name of an address of the form "Name <addr>".
//
// Surrounding quotes are removed from the display name, the name is turned into an
// RFC 2047 encoded word in the given Charset and the address is reassembled as
// `"=?charset?Q?Name?=" <addr>`. Addresses without a display name are returned unchanged.
func FormatAddress(addr string, charset Charset) string {
	match := addressRegex.FindStringSubmatch(addr)
	if match == nil {
		return addr
	}
	phrase := quotedPhraseRegex.ReplaceAllString(match[1], "$1")
	return fmt.Sprintf("%q %s", EncodeWord(phrase, charset), match[2])
}

// FormatAddressList formats each address independently with FormatAddress.
func FormatAddressList(addrs []string, charset Charset) []string {
	formatted := make([]string, len(addrs))
	for i, addr := range addrs {
		formatted[i] = FormatAddress(addr, charset)
	}
	return formatted
}
