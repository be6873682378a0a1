// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

// Package mailit composes RFC 2045/2046/2047 compliant mail messages.
//
// A Mail collects headers, a plain-text body, an optional HTML alternative and
// base64-encoded attachments. A Composer turns the Mail into the byte stream that
// is handed to a mail transfer client, see the mailer sub-package for delivery.
//
//	m := mailit.NewMail()
//	m.SetTo("Jane Doe <jane@example.com>")
//	m.SetFrom("john@example.com")
//	m.SetSubject("Here are some files for you!")
//	m.SetText("This is what people with plain text mail readers will see")
//	m.SetHTML("A little something <b>special</b> for people with HTML readers")
//	if err := m.Attach("/etc/fstab"); err != nil {
//		// handle error
//	}
//	raw := mailit.NewComposer().Compose(m)
package mailit

// VERSION is the release version, reported as instrumentation version by the mailer package
const VERSION = "0.1.0"
