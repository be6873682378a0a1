// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailit

import (
	"fmt"
	"io"
	"time"
)

// htmlSkeleton wraps an HTML fragment set with Mail.SetHTML. Parameters: charset, fragment.
const htmlSkeleton = `<html>
  <head>
    <meta http-equiv="Content-Type" content="text/html; charset=%s">
  </head>
  <body bgcolor="#ffffff" text="#000000">
  %s
  </body>
</html>`

// Mail is a single outgoing mail message.
//
// A Mail is constructed empty, mutated freely and composed on demand by a Composer.
// It is not safe for concurrent mutation.
type Mail struct {
	// attachmentBoundary delimits the outer multipart and the attachments
	attachmentBoundary string

	// attachments are written in insertion order
	attachments []*Attachment

	// bodyBoundary delimits the text and HTML alternatives
	bodyBoundary string

	// charset applies to the subject, address display names and body parts
	charset Charset

	// headers is the ordered header collection
	headers *Headers

	// html is the optional HTML body
	html *string

	// mimeResolver resolves attachment MIME types that are not given explicitly
	mimeResolver MIMETypeResolver

	// text is the plain text body
	text *string
}

// MailOption is a function type used to configure a new Mail.
type MailOption func(*Mail)

// NewMail returns a new, empty Mail. Both boundaries are generated once and stay fixed for
// the life of the Mail.
func NewMail(opts ...MailOption) *Mail {
	m := &Mail{
		attachmentBoundary: GenerateBoundary(DefaultBoundaryLength),
		bodyBoundary:       GenerateBoundary(DefaultBoundaryLength),
		charset:            CharsetUTF8,
		headers:            NewHeaders(CharsetUTF8, MatchPrefix),
		mimeResolver:       ExtensionResolver{},
	}

	// Override defaults with optionally provided MailOption functions
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(m)
	}
	return m
}

// WithCharset overrides the default "utf-8" charset of the Mail.
func WithCharset(charset Charset) MailOption {
	return func(m *Mail) {
		m.SetCharset(charset)
	}
}

// WithHeaderMatch overrides the default MatchPrefix header name matching.
func WithHeaderMatch(match HeaderMatch) MailOption {
	return func(m *Mail) {
		m.headers.match = match
	}
}

// WithMIMETypeResolver overrides the default ExtensionResolver used for attachments.
func WithMIMETypeResolver(resolver MIMETypeResolver) MailOption {
	return func(m *Mail) {
		m.mimeResolver = resolver
	}
}

// WithBoundaries overrides the generated body and attachment boundaries. Empty values
// keep the generated boundary.
func WithBoundaries(body, attachment string) MailOption {
	return func(m *Mail) {
		if body != "" {
			m.bodyBoundary = body
		}
		if attachment != "" {
			m.attachmentBoundary = attachment
		}
	}
}

// Charset returns the charset of the Mail.
func (m *Mail) Charset() Charset {
	return m.charset
}

// SetCharset sets the charset of the Mail. Already stored headers and HTML bodies are
// not re-encoded.
func (m *Mail) SetCharset(charset Charset) {
	m.charset = charset
	m.headers.SetCharset(charset)
}

// Headers returns the header collection of the Mail.
func (m *Mail) Headers() *Headers {
	return m.headers
}

// BodyBoundary returns the boundary of the text/HTML alternatives.
func (m *Mail) BodyBoundary() string {
	return m.bodyBoundary
}

// AttachmentBoundary returns the boundary of the outer multipart.
func (m *Mail) AttachmentBoundary() string {
	return m.attachmentBoundary
}

// AddHeader appends a header to the Mail, see Headers.Add.
func (m *Mail) AddHeader(name Header, value string) {
	m.headers.Add(name, value)
}

// SetHeader replaces all headers matching name, see Headers.Set.
func (m *Mail) SetHeader(name Header, value string) {
	m.headers.Set(name, value)
}

// RemoveHeader removes all headers matching name, see Headers.Remove.
func (m *Mail) RemoveHeader(name Header) {
	m.headers.Remove(name)
}

// GetHeader returns the values of all headers matching name, see Headers.Get.
func (m *Mail) GetHeader(name Header) []string {
	return m.headers.Get(name)
}

// SetText sets the plain text body of the Mail.
func (m *Mail) SetText(text string) {
	m.text = &text
}

// Text returns the plain text body and whether it is set.
func (m *Mail) Text() (string, bool) {
	if m.text == nil {
		return "", false
	}
	return *m.text, true
}

// SetHTML wraps the HTML fragment into a complete HTML document declaring the current
// charset of the Mail and sets it as HTML body.
func (m *Mail) SetHTML(fragment string) {
	m.SetRawHTML(fmt.Sprintf(htmlSkeleton, m.charset, fragment))
}

// SetRawHTML sets html as HTML body of the Mail without wrapping it.
func (m *Mail) SetRawHTML(html string) {
	m.html = &html
}

// HTML returns the HTML body and whether it is set.
func (m *Mail) HTML() (string, bool) {
	if m.html == nil {
		return "", false
	}
	return *m.html, true
}

// RemoveHTML unsets the HTML body of the Mail.
func (m *Mail) RemoveHTML() {
	m.html = nil
}

// IsMultipart reports whether the Mail is composed as multipart message, which is the
// case if an HTML body is set or at least one attachment is present.
func (m *Mail) IsMultipart() bool {
	return m.html != nil || len(m.attachments) > 0
}

// SetTo sets the "To" header of the Mail.
func (m *Mail) SetTo(addrs ...string) {
	m.headers.SetAddresses(HeaderTo, addrs...)
}

// To returns the first "To" header value or an empty string.
func (m *Mail) To() string {
	return m.first(HeaderTo)
}

// SetFrom sets the "From" header of the Mail.
func (m *Mail) SetFrom(addr string) {
	m.headers.Set(HeaderFrom, addr)
}

// From returns the first "From" header value or an empty string.
func (m *Mail) From() string {
	return m.first(HeaderFrom)
}

// SetBcc sets the "Bcc" header of the Mail.
func (m *Mail) SetBcc(addrs ...string) {
	m.headers.SetAddresses(HeaderBcc, addrs...)
}

// Bcc returns the first "Bcc" header value or an empty string.
func (m *Mail) Bcc() string {
	return m.first(HeaderBcc)
}

// SetReplyTo sets the "Reply-To" header of the Mail.
func (m *Mail) SetReplyTo(addr string) {
	m.headers.Set(HeaderReplyTo, addr)
}

// ReplyTo returns the first "Reply-To" header value or an empty string.
func (m *Mail) ReplyTo() string {
	return m.first(HeaderReplyTo)
}

// SetSubject sets the "Subject" header of the Mail as RFC 2047 encoded word.
func (m *Mail) SetSubject(subject string) {
	m.headers.Set(HeaderSubject, subject)
}

// Subject returns the first, encoded "Subject" header value or an empty string.
func (m *Mail) Subject() string {
	return m.first(HeaderSubject)
}

// SetMessageID sets the "Message-ID" header of the Mail to the given value.
func (m *Mail) SetMessageID(id string) {
	m.headers.Set(HeaderMessageID, id)
}

// MessageID returns the first "Message-ID" header value or an empty string.
func (m *Mail) MessageID() string {
	return m.first(HeaderMessageID)
}

// SetDate sets the "Date" header of the Mail to the provided time formatted as per RFC 2822.
func (m *Mail) SetDate(t time.Time) {
	m.headers.Set(HeaderDate, t.Format(time.RFC1123Z))
}

// WriteTo composes the Mail with a default Composer into w and satisfies the io.WriterTo
// interface.
func (m *Mail) WriteTo(w io.Writer) (int64, error) {
	return NewComposer().WriteMail(w, m)
}

// Bytes composes the Mail with a default Composer.
func (m *Mail) Bytes() []byte {
	return NewComposer().Compose(m)
}

// String composes the Mail with a default Composer and satisfies the fmt.Stringer interface.
func (m *Mail) String() string {
	return string(m.Bytes())
}

// first returns the first value of the headers matching name.
func (m *Mail) first(name Header) string {
	values := m.headers.Get(name)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
