// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailer

import (
	"errors"
	"strconv"
	"strings"

	"github.com/emersion/go-smtp"
)

// List of SendError reasons
const (
	// ErrGetSender is returned if no envelope sender can be derived from the "From" header
	ErrGetSender SendErrReason = iota

	// ErrGetRcpts is returned if no envelope recipients can be derived from the recipient headers
	ErrGetRcpts

	// ErrConnect is returned if the connection to the SMTP server could not be established
	ErrConnect

	// ErrTLS is returned if the TLS policy could not be satisfied
	ErrTLS

	// ErrAuth is returned if the SMTP authentication failed
	ErrAuth

	// ErrSMTPMailFrom is returned if the delivery failed when sending the MAIL FROM command
	// to the sending SMTP server
	ErrSMTPMailFrom

	// ErrSMTPRcptTo is returned if the delivery failed when sending the RCPT TO command
	// to the sending SMTP server
	ErrSMTPRcptTo

	// ErrSMTPData is returned if the delivery failed when sending the DATA command
	// to the sending SMTP server
	ErrSMTPData

	// ErrSMTPDataClose is returned if the delivery failed when trying to close the
	// data writer
	ErrSMTPDataClose

	// ErrWriteContent is returned if the delivery failed when sending the message content
	// to the data writer
	ErrWriteContent

	// ErrTransport is returned if a non-SMTP transport rejected the message
	ErrTransport

	// ErrAmbiguous is a generalized delivery error for the SendError type that is
	// returned if the exact reason for the delivery failure is ambiguous
	ErrAmbiguous
)

// SendError is an error wrapper for delivery errors of a Mail.
//
// It holds the reason of the failure, the underlying errors, the affected recipients and
// whether the SMTP server reported the failure as temporary.
type SendError struct {
	enhancedStatusCode string
	errcode            int
	errlist            []error
	isTemp             bool
	messageID          string
	rcpt               []string
	Reason             SendErrReason
}

// SendErrReason represents a comparable reason on why the delivery failed
type SendErrReason int

// newSendError returns a SendError for reason wrapping err. The SMTP reply code of err
// determines the temporary status and the error codes.
func newSendError(reason SendErrReason, err error, rcpt ...string) *SendError {
	sendErr := &SendError{Reason: reason, rcpt: rcpt}
	if err == nil {
		return sendErr
	}
	sendErr.errlist = []error{err}
	var smtpErr *smtp.SMTPError
	if errors.As(err, &smtpErr) {
		sendErr.errcode = smtpErr.Code
		sendErr.isTemp = smtpErr.Code >= 400 && smtpErr.Code < 500
		if smtpErr.EnhancedCode[0] > 0 {
			sendErr.enhancedStatusCode = enhancedCodeString(smtpErr.EnhancedCode)
		}
	}
	return sendErr
}

// Error implements the error interface for the SendError type.
func (e *SendError) Error() string {
	if e.Reason > ErrAmbiguous || e.Reason < ErrGetSender {
		return "unknown reason"
	}

	var errMessage strings.Builder
	errMessage.WriteString(e.Reason.String())
	if len(e.errlist) > 0 {
		errMessage.WriteRune(':')
		for i := range e.errlist {
			errMessage.WriteRune(' ')
			errMessage.WriteString(e.errlist[i].Error())
			if i != len(e.errlist)-1 {
				errMessage.WriteString(",")
			}
		}
	}
	if len(e.rcpt) > 0 {
		errMessage.WriteString(", affected recipient(s): ")
		errMessage.WriteString(strings.Join(e.rcpt, ", "))
	}
	if e.messageID != "" {
		errMessage.WriteString(", affected message ID: ")
		errMessage.WriteString(e.messageID)
	}

	return errMessage.String()
}

// Is implements the errors.Is functionality and compares the SendErrReason and the
// temporary status.
func (e *SendError) Is(errType error) bool {
	var t *SendError
	if errors.As(errType, &t) && t != nil {
		return e.Reason == t.Reason && e.isTemp == t.isTemp
	}
	return false
}

// Unwrap returns the underlying errors of the SendError.
func (e *SendError) Unwrap() []error {
	if e == nil {
		return nil
	}
	return e.errlist
}

// IsTemp returns true if the delivery error is of a temporary nature and can be retried.
func (e *SendError) IsTemp() bool {
	if e == nil {
		return false
	}
	return e.isTemp
}

// MessageID returns the Message-ID of the Mail that could not be delivered.
func (e *SendError) MessageID() string {
	if e == nil {
		return ""
	}
	return e.messageID
}

// Recipients returns the recipients affected by the error.
func (e *SendError) Recipients() []string {
	if e == nil {
		return nil
	}
	return e.rcpt
}

// EnhancedStatusCode returns the enhanced status code of the server response if the
// server supports it, as described in RFC 2034.
func (e *SendError) EnhancedStatusCode() string {
	if e == nil {
		return ""
	}
	return e.enhancedStatusCode
}

// ErrorCode returns the error code of the server response. The error code will start with
// 5 on permanent errors and with 4 on a temporary error. If the error is not returned by
// the server, the code will be 0.
func (e *SendError) ErrorCode() int {
	if e == nil {
		return 0
	}
	return e.errcode
}

// String satisfies the fmt.Stringer interface for the SendErrReason type.
func (r SendErrReason) String() string {
	switch r {
	case ErrGetSender:
		return "getting sender address"
	case ErrGetRcpts:
		return "getting recipient addresses"
	case ErrConnect:
		return "connecting to SMTP server"
	case ErrTLS:
		return "establishing TLS"
	case ErrAuth:
		return "authenticating with SMTP server"
	case ErrSMTPMailFrom:
		return "sending SMTP MAIL FROM command"
	case ErrSMTPRcptTo:
		return "sending SMTP RCPT TO command"
	case ErrSMTPData:
		return "sending SMTP DATA command"
	case ErrSMTPDataClose:
		return "closing SMTP DATA writer"
	case ErrWriteContent:
		return "sending message content"
	case ErrTransport:
		return "delivering message via transport"
	case ErrAmbiguous:
		return "ambiguous reason"
	}
	return "unknown reason"
}

// enhancedCodeString formats an RFC 3463 enhanced status code.
func enhancedCodeString(code smtp.EnhancedCode) string {
	var sb strings.Builder
	for i, part := range code {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(part))
	}
	return sb.String()
}
