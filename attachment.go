// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailit

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
)

// AttachmentErrKind classifies why an attachment could not be added to a Mail.
type AttachmentErrKind int

const (
	// KindNotFound indicates that the attachment source path does not exist.
	KindNotFound AttachmentErrKind = iota

	// KindIO indicates that the attachment source could not be opened or read.
	KindIO

	// KindInvalid indicates that the filename or MIME type of the attachment is empty.
	KindInvalid
)

var (
	// ErrAttachmentNotFound matches an AttachmentError of kind KindNotFound with errors.Is.
	ErrAttachmentNotFound = errors.New("attachment source not found")

	// ErrAttachmentIO matches an AttachmentError of kind KindIO with errors.Is.
	ErrAttachmentIO = errors.New("attachment source not readable")

	// ErrAttachmentInvalid matches an AttachmentError of kind KindInvalid with errors.Is.
	ErrAttachmentInvalid = errors.New("attachment metadata invalid")
)

// AttachmentError is returned by Mail.Attach and Mail.AttachReader. The attachment is
// not added when an error is returned.
type AttachmentError struct {
	Kind AttachmentErrKind
	Name string
	Err  error
}

// Error implements the error interface for the AttachmentError type.
func (e *AttachmentError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %q", e.Kind.sentinel(), e.Name)
	}
	return fmt.Sprintf("%s: %q: %s", e.Kind.sentinel(), e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *AttachmentError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel error of the AttachmentError's kind.
func (e *AttachmentError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// sentinel returns the sentinel error of the kind.
func (k AttachmentErrKind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrAttachmentNotFound
	case KindInvalid:
		return ErrAttachmentInvalid
	default:
		return ErrAttachmentIO
	}
}

// Attachment is a file attached to a Mail.
type Attachment struct {
	// Filename is the name used in the Content-Type "name" and Content-Disposition
	// "filename" parameters.
	Filename string

	// MIMEType is the content type of the attachment.
	MIMEType string

	// Payload is the base64 encoded file content, wrapped at MaxBodyLength characters
	// with CRLF line breaks and without a trailing line break.
	Payload []byte

	// ExtraHeaders are raw header lines appended verbatim to the attachment's header block.
	ExtraHeaders []string
}

// AttachmentOption is a function type used to modify properties of an Attachment before
// it is added to a Mail.
type AttachmentOption func(*Attachment)

// WithAttachmentName overrides the filename that defaults to the base name of the source.
func WithAttachmentName(name string) AttachmentOption {
	return func(a *Attachment) {
		a.Filename = name
	}
}

// WithAttachmentMIMEType overrides the MIME type that is resolved by the Mail's
// MIMETypeResolver otherwise.
func WithAttachmentMIMEType(mimeType string) AttachmentOption {
	return func(a *Attachment) {
		a.MIMEType = mimeType
	}
}

// WithAttachmentHeaders appends raw header lines to the attachment's header block.
func WithAttachmentHeaders(lines ...string) AttachmentOption {
	return func(a *Attachment) {
		a.ExtraHeaders = append(a.ExtraHeaders, lines...)
	}
}

// lineBreakRegex splits a raw header block into lines
var lineBreakRegex = regexp.MustCompile(`\r?\n`)

// WithAttachmentHeaderBlock splits a raw header block on line breaks and appends the lines
// to the attachment's header block.
func WithAttachmentHeaderBlock(block string) AttachmentOption {
	return WithAttachmentHeaders(lineBreakRegex.Split(block, -1)...)
}

// Attach reads the file at path, base64 encodes it and appends it as Attachment to the
// Mail. The filename defaults to the base name of path and the MIME type is resolved by
// the Mail's MIMETypeResolver unless overridden by an AttachmentOption.
//
// A missing file yields an AttachmentError of kind KindNotFound, any other open or read
// failure one of kind KindIO.
func (m *Mail) Attach(path string, opts ...AttachmentOption) error {
	file, err := os.Open(path)
	if err != nil {
		kind := KindIO
		if errors.Is(err, fs.ErrNotExist) {
			kind = KindNotFound
		}
		return &AttachmentError{Kind: kind, Name: path, Err: err}
	}
	defer func() {
		_ = file.Close()
	}()
	return m.attach(path, file, opts...)
}

// AttachReader reads r to the end, base64 encodes the content and appends it as
// Attachment to the Mail. The filename defaults to the base name of name.
func (m *Mail) AttachReader(name string, r io.Reader, opts ...AttachmentOption) error {
	return m.attach(name, r, opts...)
}

// Attachments returns the attachments of the Mail in insertion order.
func (m *Mail) Attachments() []*Attachment {
	attachments := make([]*Attachment, len(m.attachments))
	copy(attachments, m.attachments)
	return attachments
}

// RemoveAttachments removes all attachments from the Mail.
func (m *Mail) RemoveAttachments() {
	m.attachments = nil
}

// attach reads and encodes the content first and only appends a complete Attachment.
func (m *Mail) attach(source string, r io.Reader, opts ...AttachmentOption) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return &AttachmentError{Kind: KindIO, Name: source, Err: err}
	}

	attachment := &Attachment{Filename: filepath.Base(source)}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(attachment)
	}
	if attachment.Filename == "" || attachment.Filename == "." {
		return &AttachmentError{Kind: KindInvalid, Name: source, Err: errors.New("empty filename")}
	}
	if attachment.MIMEType == "" && m.mimeResolver != nil {
		attachment.MIMEType = m.mimeResolver.MIMEType(attachment.Filename)
	}
	if attachment.MIMEType == "" {
		return &AttachmentError{Kind: KindInvalid, Name: source, Err: errors.New("unresolved MIME type")}
	}

	payload, err := encodeBase64(content)
	if err != nil {
		return &AttachmentError{Kind: KindIO, Name: source, Err: err}
	}
	attachment.Payload = payload
	m.attachments = append(m.attachments, attachment)
	return nil
}

// encodeBase64 returns content as base64 wrapped by a Base64LineBreaker, without the
// final line break.
func encodeBase64(content []byte) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, base64.StdEncoding.EncodedLen(len(content))*78/76+2))
	lineBreaker := NewBase64LineBreaker(buf)
	encoder := base64.NewEncoder(base64.StdEncoding, lineBreaker)
	if _, err := encoder.Write(content); err != nil {
		return nil, fmt.Errorf("failed to encode attachment: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to close base64 encoder: %w", err)
	}
	if err := lineBreaker.Close(); err != nil {
		return nil, fmt.Errorf("failed to close line breaker: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), newlineBytes), nil
}
