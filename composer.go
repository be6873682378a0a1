// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailit

import (
	"bytes"
	"fmt"
	"io"
	"time"
)

// Layout selects the multipart structure a Composer produces.
type Layout int

const (
	// LayoutCompat reproduces the historic mailit output byte for byte. The top-level
	// "Content-Type" names multipart/alternative with the body boundary when attachments
	// are present and multipart/mixed with the attachment boundary otherwise, every
	// attachment is followed by a closing delimiter of the attachment boundary, and the
	// outer boundary stays open for messages without attachments.
	LayoutCompat Layout = iota

	// LayoutRFC2046 produces a structure that matches its "Content-Type" header: a
	// multipart/mixed message with a nested multipart/alternative part when attachments
	// are present, a plain multipart/alternative message otherwise. Each boundary is
	// closed exactly once.
	LayoutRFC2046
)

// MIMEIndicator is the informational line in front of the first boundary of a multipart Mail.
const MIMEIndicator = "This is a multi-part message in MIME format."

// Composer renders a Mail into its RFC 5322 byte representation.
//
// Composition inserts a "Message-ID" and a "Date" header into the Mail if they are absent
// and, for multipart messages, "MIME-Version" and "Content-Type". Repeated composition of
// an unchanged Mail yields identical output. A Composer holds no per-Mail state and may be
// used from multiple goroutines for distinct Mails.
type Composer struct {
	// layout selects the multipart structure
	layout Layout

	// messageID generates a missing "Message-ID" header, nil disables the generation
	messageID MessageIDGenerator

	// noDate disables the generation of a missing "Date" header
	noDate bool

	// now returns the time used for "Date" and "Message-ID"
	now func() time.Time
}

// ComposerOption is a function type used to configure a Composer.
type ComposerOption func(*Composer)

// NewComposer returns a new Composer using LayoutCompat, the default MessageIDGenerator and
// the system clock, unless overridden by ComposerOption functions.
func NewComposer(opts ...ComposerOption) *Composer {
	c := &Composer{
		layout:    LayoutCompat,
		messageID: NewMessageIDGenerator(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// WithLayout overrides the default LayoutCompat.
func WithLayout(layout Layout) ComposerOption {
	return func(c *Composer) {
		c.layout = layout
	}
}

// WithClock overrides the clock used for the "Date" and "Message-ID" headers.
func WithClock(now func() time.Time) ComposerOption {
	return func(c *Composer) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMessageIDGenerator overrides the default MessageIDGenerator.
func WithMessageIDGenerator(generator MessageIDGenerator) ComposerOption {
	return func(c *Composer) {
		c.messageID = generator
	}
}

// WithoutMessageID disables the generation of a missing "Message-ID" header.
func WithoutMessageID() ComposerOption {
	return func(c *Composer) {
		c.messageID = nil
	}
}

// WithoutDate disables the generation of a missing "Date" header.
func WithoutDate() ComposerOption {
	return func(c *Composer) {
		c.noDate = true
	}
}

// Layout returns the Layout of the Composer.
func (c *Composer) Layout() Layout {
	return c.layout
}

// Compose returns the complete message: the header block followed by the body.
func (c *Composer) Compose(m *Mail) []byte {
	buf := bytes.NewBuffer(nil)
	// Writes into a bytes.Buffer cannot fail
	_, _ = c.WriteMail(buf, m)
	return buf.Bytes()
}

// HeaderBlock returns the header block of the message including the blank line that
// separates it from the body. The Mail's headers are completed first.
func (c *Composer) HeaderBlock(m *Mail) []byte {
	c.prepare(m)
	return []byte(m.headers.String())
}

// BodyBlock returns the body of the message. The Mail's headers are completed first, so
// HeaderBlock and BodyBlock can be obtained in either order.
func (c *Composer) BodyBlock(m *Mail) []byte {
	c.prepare(m)
	buf := bytes.NewBuffer(nil)
	mw := &composeWriter{w: buf, layout: c.layout}
	mw.writeBody(m)
	return buf.Bytes()
}

// WriteMail composes the Mail into w and returns the number of bytes written.
func (c *Composer) WriteMail(w io.Writer, m *Mail) (int64, error) {
	c.prepare(m)
	mw := &composeWriter{w: w, layout: c.layout}
	mw.writeString(m.headers.String())
	mw.writeBody(m)
	return mw.n, mw.err
}

// prepare inserts the generated headers the Mail lacks.
func (c *Composer) prepare(m *Mail) {
	now := c.now()
	if c.messageID != nil && !m.headers.Has(HeaderMessageID) {
		m.headers.Set(HeaderMessageID, c.messageID.MessageID(m, now))
	}
	if !c.noDate && !m.headers.Has(HeaderDate) {
		m.headers.Set(HeaderDate, now.Format(time.RFC1123Z))
	}
	if !m.IsMultipart() {
		return
	}
	if !m.headers.Has(HeaderMIMEVersion) {
		m.headers.Set(HeaderMIMEVersion, string(Mime10))
	}
	if !m.headers.Has(HeaderContentType) {
		m.headers.Set(HeaderContentType, c.contentType(m))
	}
}

// contentType returns the top-level multipart "Content-Type" value for the Layout.
func (c *Composer) contentType(m *Mail) string {
	hasAttachments := len(m.attachments) > 0
	switch {
	case c.layout == LayoutRFC2046 && hasAttachments:
		return multipartType(TypeMultipartMixed, m.attachmentBoundary)
	case c.layout == LayoutRFC2046:
		return multipartType(TypeMultipartAlternative, m.bodyBoundary)
	case hasAttachments:
		return multipartType(TypeMultipartAlternative, m.bodyBoundary)
	default:
		return multipartType(TypeMultipartMixed, m.attachmentBoundary)
	}
}

// multipartType formats a multipart content type with a quoted boundary parameter.
func multipartType(ct ContentType, boundary string) string {
	return fmt.Sprintf("%s; boundary=%q", ct, boundary)
}

// composeWriter handles the I/O of a single composition. After the first failed write all
// further writes are skipped and the error is kept.
type composeWriter struct {
	err    error
	layout Layout
	n      int64
	w      io.Writer
}

// Write implements the io.Writer interface for composeWriter.
func (mw *composeWriter) Write(p []byte) (int, error) {
	if mw.err != nil {
		return 0, fmt.Errorf("failed to write due to previous error: %w", mw.err)
	}

	var n int
	n, mw.err = mw.w.Write(p)
	mw.n += int64(n)
	return n, mw.err
}

// writeString writes a string into the composeWriter's io.Writer interface
func (mw *composeWriter) writeString(s string) {
	if mw.err != nil {
		return
	}
	var n int
	n, mw.err = io.WriteString(mw.w, s)
	mw.n += int64(n)
}

// writeLine writes s followed by a line break.
func (mw *composeWriter) writeLine(s string) {
	mw.writeString(s)
	mw.writeString(SingleNewLine)
}

// writeBody writes the body of the Mail. A Mail that is not multipart gets its text
// verbatim.
func (mw *composeWriter) writeBody(m *Mail) {
	if !m.IsMultipart() {
		if m.text != nil {
			mw.writeString(*m.text)
		}
		return
	}

	nested := mw.layout == LayoutCompat || len(m.attachments) > 0
	mw.writeLine(MIMEIndicator)
	mw.writeString(SingleNewLine)
	if nested {
		mw.writeLine("--" + m.attachmentBoundary)
		mw.writeLine(fmt.Sprintf("%s: %s", HeaderContentType,
			multipartType(TypeMultipartAlternative, m.bodyBoundary)))
		mw.writeString(SingleNewLine)
	}

	text, _ := m.Text()
	mw.writeTextPart(m.bodyBoundary, mw.textPlainType(m.charset), m.charset.Bytes(text))
	if html, ok := m.HTML(); ok {
		mw.writeTextPart(m.bodyBoundary, fmt.Sprintf("%s; charset=%s", TypeTextHTML, m.charset),
			m.charset.Bytes(html))
	}
	mw.writeLine("--" + m.bodyBoundary + "--")

	for _, attachment := range m.attachments {
		mw.writeAttachment(m.attachmentBoundary, attachment)
	}
	if mw.layout == LayoutRFC2046 && len(m.attachments) > 0 {
		mw.writeLine("--" + m.attachmentBoundary + "--")
	}
}

// textPlainType returns the content type of the plain text part.
func (mw *composeWriter) textPlainType(charset Charset) string {
	if mw.layout == LayoutCompat {
		return fmt.Sprintf("%s; charset=%s format=flowed", TypeTextPlain, charset)
	}
	return fmt.Sprintf("%s; charset=%s; format=flowed", TypeTextPlain, charset)
}

// writeTextPart writes a quoted-printable encoded body part.
func (mw *composeWriter) writeTextPart(boundary, contentType string, content []byte) {
	mw.writeLine("--" + boundary)
	mw.writeLine(fmt.Sprintf("%s: %s", HeaderContentType, contentType))
	mw.writeLine(fmt.Sprintf("%s: %s", HeaderContentTransferEnc, EncodingQP))
	mw.writeString(SingleNewLine)
	mw.writeLine(EncodeQuotedPrintable(content))
}

// writeAttachment writes an attachment part including its already encoded payload.
func (mw *composeWriter) writeAttachment(boundary string, attachment *Attachment) {
	mw.writeString(SingleNewLine)
	mw.writeLine("--" + boundary)
	mw.writeLine(fmt.Sprintf("%s: %s; name=%q", HeaderContentType, attachment.MIMEType,
		attachment.Filename))
	mw.writeLine(fmt.Sprintf("%s: %s", HeaderContentTransferEnc, EncodingB64))
	mw.writeLine(fmt.Sprintf("%s: inline; filename=%q", HeaderContentDisposition,
		attachment.Filename))
	for _, line := range attachment.ExtraHeaders {
		mw.writeLine(line)
	}
	mw.writeString(SingleNewLine)
	if mw.err == nil {
		var n int
		n, mw.err = mw.w.Write(attachment.Payload)
		mw.n += int64(n)
	}
	mw.writeString(SingleNewLine)
	if mw.layout == LayoutCompat {
		mw.writeLine("--" + boundary + "--")
	}
}
