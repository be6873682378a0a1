// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailit

import (
	"io"
	"strings"
)

// Header is a type wrapper for a string and represents a header field name of a Mail.
type Header string

// HeaderMatch selects how header names are compared by Headers.Set, Headers.Remove and
// Headers.Get.
type HeaderMatch int

const (
	// MatchPrefix matches every stored header whose name starts with the requested name,
	// ignoring case. This is the compatible default.
	//
	// Note that this also matches unrelated headers that share the prefix: removing "To"
	// removes a stored "Token" header as well.
	MatchPrefix HeaderMatch = iota

	// MatchExact matches stored headers whose name equals the requested name, ignoring case.
	MatchExact
)

const (
	// HeaderContentDisposition is the "Content-Disposition" header.
	HeaderContentDisposition Header = "Content-Disposition"

	// HeaderContentTransferEnc is the "Content-Transfer-Encoding" header.
	HeaderContentTransferEnc Header = "Content-Transfer-Encoding"

	// HeaderContentType is the "Content-Type" header.
	HeaderContentType Header = "Content-Type"

	// HeaderDate represents the "Date" field.
	// https://datatracker.ietf.org/doc/html/rfc822#section-5.1
	HeaderDate Header = "Date"

	// HeaderMessageID represents the "Message-ID" field for message identification.
	// https://datatracker.ietf.org/doc/html/rfc1036#section-2.1.5
	HeaderMessageID Header = "Message-ID"

	// HeaderMIMEVersion represents the "MIME-Version" field as per RFC 2045.
	// https://datatracker.ietf.org/doc/html/rfc2045#section-4
	HeaderMIMEVersion Header = "MIME-Version"

	// HeaderOrganization is the "Organization" header field.
	HeaderOrganization Header = "Organization"

	// HeaderSubject is the "Subject" header field.
	HeaderSubject Header = "Subject"

	// HeaderUserAgent is the "User-Agent" header field.
	HeaderUserAgent Header = "User-Agent"

	// HeaderXMailer is the "X-Mailer" header field.
	HeaderXMailer Header = "X-Mailer"
)

const (
	// HeaderBcc is the "Blind Carbon Copy" header field.
	HeaderBcc Header = "Bcc"

	// HeaderCc is the "Carbon Copy" header field.
	HeaderCc Header = "Cc"

	// HeaderFrom is the "From" header field.
	HeaderFrom Header = "From"

	// HeaderReplyTo is the "Reply-To" header field.
	HeaderReplyTo Header = "Reply-To"

	// HeaderTo is the "Recipient" header field.
	HeaderTo Header = "To"
)

// String satisfies the fmt.Stringer interface for the Header type.
func (h Header) String() string {
	return string(h)
}

// HeaderField is a single stored header name/value pair. The name keeps the casing it
// was added with.
type HeaderField struct {
	Name  Header
	Value string
}

// headerTransform turns a caller supplied header value into its stored form.
type headerTransform func(value string, charset Charset) string

// headerTransforms maps lower-cased header names to the transform applied on Add. Header
// names not in the table are stored verbatim.
var headerTransforms = map[string]headerTransform{
	"subject":  EncodeWord,
	"from":     FormatAddress,
	"to":       FormatAddress,
	"bcc":      FormatAddress,
	"reply-to": FormatAddress,
}

// Headers is the ordered header collection of a Mail.
//
// Insertion order is preserved. Names are compared case-insensitively according to the
// HeaderMatch mode. Headers is not safe for concurrent mutation.
type Headers struct {
	charset    Charset
	fields     []HeaderField
	match      HeaderMatch
	transforms map[string]headerTransform
}

// NewHeaders returns an empty Headers collection that encodes with the given Charset and
// compares names using the given HeaderMatch mode.
func NewHeaders(charset Charset, match HeaderMatch) *Headers {
	return &Headers{
		charset:    charset,
		match:      match,
		transforms: headerTransforms,
	}
}

// SetCharset changes the Charset used for values added afterwards. Stored values are
// not re-encoded.
func (h *Headers) SetCharset(charset Charset) {
	h.charset = charset
}

// Add appends a header unconditionally. "Subject" values are stored as RFC 2047 encoded
// word, the display names of "From", "To", "Bcc" and "Reply-To" values are formatted
// with FormatAddress. All other values are stored verbatim.
func (h *Headers) Add(name Header, value string) {
	if transform, ok := h.transforms[strings.ToLower(string(name))]; ok {
		value = transform(value, h.charset)
	}
	h.fields = append(h.fields, HeaderField{Name: name, Value: value})
}

// AddAddresses formats every address with FormatAddress and appends them as a single,
// comma separated header value.
func (h *Headers) AddAddresses(name Header, addrs ...string) {
	value := strings.Join(FormatAddressList(addrs, h.charset), ", ")
	h.fields = append(h.fields, HeaderField{Name: name, Value: value})
}

// Set removes all headers matching name and then adds the header.
func (h *Headers) Set(name Header, value string) {
	h.Remove(name)
	h.Add(name, value)
}

// SetAddresses removes all headers matching name and then adds the addresses as with
// AddAddresses.
func (h *Headers) SetAddresses(name Header, addrs ...string) {
	h.Remove(name)
	h.AddAddresses(name, addrs...)
}

// Remove removes all headers matching name.
func (h *Headers) Remove(name Header) {
	kept := h.fields[:0]
	for _, field := range h.fields {
		if !h.matches(field.Name, name) {
			kept = append(kept, field)
		}
	}
	for i := len(kept); i < len(h.fields); i++ {
		h.fields[i] = HeaderField{}
	}
	h.fields = kept
}

// Get returns the values of all headers matching name in insertion order. It returns an
// empty slice if no header matches.
func (h *Headers) Get(name Header) []string {
	values := make([]string, 0)
	for _, field := range h.fields {
		if h.matches(field.Name, name) {
			values = append(values, field.Value)
		}
	}
	return values
}

// Has reports whether at least one header matches name.
func (h *Headers) Has(name Header) bool {
	for _, field := range h.fields {
		if h.matches(field.Name, name) {
			return true
		}
	}
	return false
}

// Fields returns a copy of all stored headers in insertion order.
func (h *Headers) Fields() []HeaderField {
	fields := make([]HeaderField, len(h.fields))
	copy(fields, h.fields)
	return fields
}

// Len returns the number of stored headers.
func (h *Headers) Len() int {
	return len(h.fields)
}

// String renders the header block: every header as "Name: Value", joined by CRLF and
// terminated by the blank line that separates headers from the body.
func (h *Headers) String() string {
	var sb strings.Builder
	for i, field := range h.fields {
		if i > 0 {
			sb.WriteString(SingleNewLine)
		}
		sb.WriteString(string(field.Name))
		sb.WriteString(": ")
		sb.WriteString(field.Value)
	}
	sb.WriteString(DoubleNewLine)
	return sb.String()
}

// WriteTo writes the header block as returned by String to w and satisfies the
// io.WriterTo interface.
func (h *Headers) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, h.String())
	return int64(n), err
}

// matches reports whether the stored header name matches the requested name.
func (h *Headers) matches(stored, requested Header) bool {
	if h.match == MatchExact {
		return strings.EqualFold(string(stored), string(requested))
	}
	if len(stored) < len(requested) {
		return false
	}
	return strings.EqualFold(string(stored[:len(requested)]), string(requested))
}
