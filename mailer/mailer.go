// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailer

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mailit-go/mailit"
	"github.com/mailit-go/mailit/log"
)

// instrumentationName is the name of the tracer used by the Mailer
const instrumentationName = "github.com/mailit-go/mailit/mailer"

// ErrNoTransport is returned by New if the Transport is nil.
var ErrNoTransport = errors.New("no transport provided")

// Option is a function type that modifies the configuration of a Mailer.
type Option func(*Mailer) error

// Mailer composes a mailit.Mail and hands the result to its Transport.
//
// A Mailer is safe for concurrent use as long as each Mail is passed to only one Send or
// DeferSend call at a time.
type Mailer struct {
	composer  *mailit.Composer
	logger    log.Logger
	metrics   *metrics
	tracer    trace.Tracer
	transport Transport
}

// New returns a Mailer delivering via transport. Mails are composed with a default
// mailit.Composer, nothing is logged and no metrics are registered unless the
// corresponding options are given.
func New(transport Transport, opts ...Option) (*Mailer, error) {
	if transport == nil {
		return nil, ErrNoTransport
	}
	m := &Mailer{
		composer:  mailit.NewComposer(),
		logger:    log.Nop{},
		tracer:    newTracer(otel.GetTracerProvider()),
		transport: transport,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// WithComposer overrides the mailit.Composer used to compose the messages
func WithComposer(composer *mailit.Composer) Option {
	return func(m *Mailer) error {
		if composer != nil {
			m.composer = composer
		}
		return nil
	}
}

// WithMailerLogger sets the log.Logger for delivery outcomes
func WithMailerLogger(logger log.Logger) Option {
	return func(m *Mailer) error {
		if logger != nil {
			m.logger = logger
		}
		return nil
	}
}

// WithRegisterer registers the delivery metrics with reg
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(m *Mailer) error {
		if reg == nil {
			return nil
		}
		deliveryMetrics, err := newMetrics(reg)
		if err != nil {
			return err
		}
		m.metrics = deliveryMetrics
		return nil
	}
}

// WithTracerProvider overrides the global OpenTelemetry TracerProvider
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(m *Mailer) error {
		if provider != nil {
			m.tracer = newTracer(provider)
		}
		return nil
	}
}

// Transport returns the Transport of the Mailer.
func (m *Mailer) Transport() Transport {
	return m.transport
}

// Send composes mail and delivers it synchronously. It fails with a *SendError.
func (m *Mailer) Send(ctx context.Context, mail *mailit.Mail) error {
	envelope, message, err := m.prepare(mail)
	if err != nil {
		return err
	}
	return m.deliver(ctx, envelope, message, mail.MessageID())
}

// DeferSend composes mail synchronously and delivers it in a new goroutine. The
// returned channel receives the result of the delivery and is closed afterwards.
//
// The mail may be modified once DeferSend returns. The delivery still honors ctx.
func (m *Mailer) DeferSend(ctx context.Context, mail *mailit.Mail) <-chan error {
	result := make(chan error, 1)
	envelope, message, err := m.prepare(mail)
	if err != nil {
		result <- err
		close(result)
		return result
	}

	messageID := mail.MessageID()
	go func() {
		defer close(result)
		result <- m.deliver(ctx, envelope, message, messageID)
	}()
	return result
}

// prepare composes mail and derives its Envelope.
func (m *Mailer) prepare(mail *mailit.Mail) (Envelope, []byte, error) {
	message := m.composer.Compose(mail)
	envelope, err := NewEnvelope(mail)
	if err != nil {
		reason := ErrGetRcpts
		if errors.Is(err, ErrNoSender) || errors.Is(err, ErrInvalidSender) {
			reason = ErrGetSender
		}
		sendErr := newSendError(reason, err)
		sendErr.messageID = mail.MessageID()
		m.logger.Errorf(log.Log{Direction: log.DirNone, Format: "failed to prepare message %s: %s",
			Messages: []interface{}{sendErr.messageID, err}})
		return envelope, nil, sendErr
	}
	return envelope, message, nil
}

// deliver hands the composed message to the Transport and records the outcome.
func (m *Mailer) deliver(ctx context.Context, envelope Envelope, message []byte, messageID string) error {
	name := m.transport.Name()
	ctx, span := m.tracer.Start(ctx, "Mailer.Send", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("mail.transport", name),
		attribute.String("mail.from", envelope.From),
		attribute.Int("mail.rcpt_count", len(envelope.To)),
		attribute.Int("mail.size", len(message)),
		attribute.String("mail.message_id", messageID),
	)

	start := time.Now()
	err := m.transport.Send(ctx, envelope, message)
	m.metrics.observe(name, start, err)
	if err != nil {
		var sendErr *SendError
		if !errors.As(err, &sendErr) {
			sendErr = newSendError(ErrAmbiguous, err, envelope.To...)
		}
		sendErr.messageID = messageID
		span.RecordError(sendErr)
		span.SetStatus(codes.Error, sendErr.Reason.String())
		m.logger.Errorf(log.Log{Direction: log.DirNone, Format: "failed to deliver message %s via %s: %s",
			Messages: []interface{}{messageID, name, sendErr}})
		return sendErr
	}

	span.SetStatus(codes.Ok, "")
	m.logger.Infof(log.Log{Direction: log.DirNone, Format: "delivered message %s via %s to %d recipient(s)",
		Messages: []interface{}{messageID, name, len(envelope.To)}})
	return nil
}

// newTracer returns the Mailer's tracer of provider.
func newTracer(provider trace.TracerProvider) trace.Tracer {
	return provider.Tracer(instrumentationName, trace.WithInstrumentationVersion(mailit.VERSION))
}
