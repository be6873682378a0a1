// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package log

import (
	"io"

	"github.com/rs/zerolog"
)

// Zerolog is a Logger that writes leveled JSON events through a zerolog.Logger
type Zerolog struct {
	log zerolog.Logger
}

// NewZerolog returns a new Zerolog writing to output. Messages above level are dropped.
func NewZerolog(output io.Writer, level Level) *Zerolog {
	return FromZerolog(zerolog.New(output).With().Timestamp().Logger(), level)
}

// FromZerolog wraps an existing zerolog.Logger, for example the global logger of an
// application, and restricts it to level.
func FromZerolog(logger zerolog.Logger, level Level) *Zerolog {
	return &Zerolog{log: logger.Level(zerologLevel(level))}
}

// zerologLevel maps a Level to the corresponding zerolog.Level.
func zerologLevel(level Level) zerolog.Level {
	switch level {
	case LevelError:
		return zerolog.ErrorLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelInfo:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

// write adds the direction of the Log to the event and sends it.
func (l *Zerolog) write(event *zerolog.Event, log Log) {
	event.Dict(DirString, zerolog.Dict().
		Str(DirFromString, log.directionFrom()).
		Str(DirToString, log.directionTo()),
	).Msg(log.message())
}

// Debugf logs a debug message via zerolog
func (l *Zerolog) Debugf(log Log) {
	l.write(l.log.Debug(), log)
}

// Infof logs an info message via zerolog
func (l *Zerolog) Infof(log Log) {
	l.write(l.log.Info(), log)
}

// Warnf logs a warn message via zerolog
func (l *Zerolog) Warnf(log Log) {
	l.write(l.log.Warn(), log)
}

// Errorf logs an error message via zerolog
func (l *Zerolog) Errorf(log Log) {
	l.write(l.log.Error(), log)
}
