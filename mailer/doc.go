// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

// Package mailer delivers mailit messages.
//
// A Mailer composes a mailit.Mail, derives the SMTP envelope from its "From", "To", "Cc"
// and "Bcc" headers and hands both to a Transport. SMTPTransport talks to an SMTP server
// with optional STARTTLS or implicit TLS and SMTP AUTH, SESTransport submits the raw
// message to AWS SES and NoopTransport only logs.
//
//	transport, err := mailer.NewSMTPTransport("smtp.example.com",
//		mailer.WithPort(587), mailer.WithTLSPolicy(mailer.TLSMandatory),
//		mailer.WithSMTPAuth(mailer.SMTPAuthPlain),
//		mailer.WithUsername("user"), mailer.WithPassword("secret"))
//	if err != nil {
//		// handle error
//	}
//	m, err := mailer.New(transport)
//	if err != nil {
//		// handle error
//	}
//	err = m.Send(ctx, mail)
//
// Deliveries are not retried and not queued. DeferSend only moves the delivery into a
// goroutine.
package mailer
