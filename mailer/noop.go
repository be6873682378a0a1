// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailer

import (
	"context"
	"strings"

	"github.com/mailit-go/mailit/log"
)

// NoopTransport accepts every message and discards it after logging the envelope.
type NoopTransport struct {
	logger log.Logger
}

// NewNoopTransport returns a NoopTransport logging to logger.
func NewNoopTransport(logger log.Logger) *NoopTransport {
	if logger == nil {
		logger = log.Nop{}
	}
	return &NoopTransport{logger: logger}
}

// Name returns "noop".
func (n *NoopTransport) Name() string {
	return "noop"
}

// Send discards message. It only fails if ctx is already done.
func (n *NoopTransport) Send(ctx context.Context, envelope Envelope, message []byte) error {
	if err := ctx.Err(); err != nil {
		return newSendError(ErrTransport, err, envelope.To...)
	}
	n.logger.Infof(log.Log{Direction: log.DirNone, Format: "noop: discarding %d bytes from %s to %s",
		Messages: []interface{}{len(message), envelope.From, strings.Join(envelope.To, ", ")}})
	return nil
}
