// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailit

// Encoding represents a MIME encoding scheme like quoted-printable or base64.
type Encoding string

// ContentType represents a content type for a Mail body part or attachment.
type ContentType string

// MIMEVersion represents the MIME version of the Mail.
type MIMEVersion string

const (
	// EncodingB64 represents the Base64 encoding as specified in RFC 2045.
	EncodingB64 Encoding = "base64"

	// EncodingQP represents the "quoted-printable" encoding as specified in RFC 2045.
	EncodingQP Encoding = "quoted-printable"
)

const (
	// TypeTextPlain represents the MIME type for plain text content.
	TypeTextPlain ContentType = "text/plain"

	// TypeTextHTML represents the MIME type for HTML text content.
	TypeTextHTML ContentType = "text/html"

	// TypeAppOctetStream represents the MIME type for arbitrary binary data.
	TypeAppOctetStream ContentType = "application/octet-stream"

	// TypeMultipartAlternative represents the MIME type for alternative renderings of the same content.
	TypeMultipartAlternative ContentType = "multipart/alternative"

	// TypeMultipartMixed represents the MIME type for a body combined with attachments.
	TypeMultipartMixed ContentType = "multipart/mixed"
)

// Mime10 is the MIME Version 1.0
const Mime10 MIMEVersion = "1.0"

// MaxBodyLength defines the maximum line length for the base64 encoded attachment payload.
const MaxBodyLength = 76

// SingleNewLine is the line delimiter of the composed message.
const SingleNewLine = "\r\n"

// DoubleNewLine separates a header block from the content that follows it.
const DoubleNewLine = "\r\n\r\n"

// String satisfies the fmt.Stringer interface for the Encoding type.
func (e Encoding) String() string {
	return string(e)
}

// String satisfies the fmt.Stringer interface for the ContentType type.
func (c ContentType) String() string {
	return string(c)
}
