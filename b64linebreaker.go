// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailit

import (
	"errors"
	"io"
)

// newlineBytes is a byte slice representation of the SingleNewLine constant used for line breaking
// in encoding processes.
var newlineBytes = []byte(SingleNewLine)

// ErrNoOutWriter is returned when no io.Writer is set for Base64LineBreaker.
var ErrNoOutWriter = errors.New("no io.Writer set for Base64LineBreaker")

// Base64LineBreaker wraps base64 encoded output into lines of MaxBodyLength characters,
// each terminated by CRLF.
//
// It satisfies the io.WriteCloser interface.
type Base64LineBreaker struct {
	line [MaxBodyLength]byte
	used int
	out  io.Writer
}

// NewBase64LineBreaker returns a Base64LineBreaker writing to out.
func NewBase64LineBreaker(out io.Writer) *Base64LineBreaker {
	return &Base64LineBreaker{out: out}
}

// Write buffers data and flushes a full line followed by CRLF whenever MaxBodyLength
// characters are collected.
func (l *Base64LineBreaker) Write(data []byte) (int, error) {
	if l.out == nil {
		return 0, ErrNoOutWriter
	}
	written := 0
	for len(data) > 0 {
		free := MaxBodyLength - l.used
		if len(data) < free {
			copy(l.line[l.used:], data)
			l.used += len(data)
			return written + len(data), nil
		}

		copy(l.line[l.used:], data[:free])
		if _, err := l.out.Write(l.line[:]); err != nil {
			return written, err
		}
		if _, err := l.out.Write(newlineBytes); err != nil {
			return written, err
		}
		l.used = 0
		written += free
		data = data[free:]
	}
	return written, nil
}

// Close writes any remaining buffered data followed by CRLF.
func (l *Base64LineBreaker) Close() error {
	if l.used == 0 {
		return nil
	}
	if l.out == nil {
		return ErrNoOutWriter
	}
	if _, err := l.out.Write(l.line[:l.used]); err != nil {
		return err
	}
	l.used = 0
	_, err := l.out.Write(newlineBytes)
	return err
}
