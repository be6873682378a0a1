// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailer

import "context"

// Transport delivers a composed message to its recipients.
//
// Send must honor the cancellation and the deadline of ctx. Errors are returned as
// *SendError where the failing stage is known.
type Transport interface {
	Send(ctx context.Context, envelope Envelope, message []byte) error
	Name() string
}
