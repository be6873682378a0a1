// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailit

import (
	"mime"
	"path/filepath"
)

// MIMETypeResolver resolves the MIME type of an attachment from its file name.
type MIMETypeResolver interface {
	MIMEType(filename string) string
}

// MIMETypeResolverFunc is an adapter to use an ordinary function as MIMETypeResolver.
type MIMETypeResolverFunc func(filename string) string

// MIMEType calls f(filename).
func (f MIMETypeResolverFunc) MIMEType(filename string) string {
	return f(filename)
}

// ExtensionResolver resolves MIME types from the file extension using the system's
// MIME type table. Unknown extensions resolve to "application/octet-stream".
type ExtensionResolver struct{}

// MIMEType satisfies the MIMETypeResolver interface for the ExtensionResolver.
func (ExtensionResolver) MIMEType(filename string) string {
	if mt := mime.TypeByExtension(filepath.Ext(filename)); mt != "" {
		return mt
	}
	return TypeAppOctetStream.String()
}
