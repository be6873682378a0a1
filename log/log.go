// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

// Package log implements a logger interface that can be used within the mailit packages
package log

import "fmt"

const (
	DirServerToClient Direction = iota // Server to Client communication
	DirClientToServer                  // Client to Server communication
	DirNone                            // Events that are not part of a protocol conversation
)

const (
	// LevelError is the Level for only ERROR log messages
	LevelError Level = iota
	// LevelWarn is the Level for WARN and higher log messages
	LevelWarn
	// LevelInfo is the Level for INFO and higher log messages
	LevelInfo
	// LevelDebug is the Level for DEBUG and higher log messages
	LevelDebug
)

const (
	// DirString is the group name of the direction attributes in structured logs
	DirString = "direction"
	// DirFromString is the attribute name of the sending side
	DirFromString = "from"
	// DirToString is the attribute name of the receiving side
	DirToString = "to"
)

// Direction is a type wrapper for the direction a debug log message goes
type Direction int

// Level is a type wrapper for an int
type Level int

// Log represents a log message type that holds a log Direction, a Format string
// and a slice of Messages
type Log struct {
	Direction Direction
	Format    string
	Messages  []interface{}
}

// Logger is the log interface for mailit
type Logger interface {
	Debugf(Log)
	Infof(Log)
	Warnf(Log)
	Errorf(Log)
}

// String satisfies the fmt.Stringer interface for the Level type.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// ParseLevel returns the Level for a case-sensitive level name as returned by Level.String
// or its lower case form.
func ParseLevel(name string) (Level, error) {
	switch name {
	case "ERROR", "error":
		return LevelError, nil
	case "WARN", "warn":
		return LevelWarn, nil
	case "INFO", "info":
		return LevelInfo, nil
	case "DEBUG", "debug":
		return LevelDebug, nil
	default:
		return LevelError, fmt.Errorf("unknown log level: %q", name)
	}
}

// message returns the formatted message of the Log.
func (l Log) message() string {
	return fmt.Sprintf(l.Format, l.Messages...)
}

// directionPrefix returns the marker written in front of a plain text log message.
func (l Log) directionPrefix() string {
	switch l.Direction {
	case DirClientToServer:
		return "C --> S: "
	case DirServerToClient:
		return "C <-- S: "
	default:
		return ""
	}
}

// directionFrom returns the sending side of the Log.
func (l Log) directionFrom() string {
	switch l.Direction {
	case DirClientToServer:
		return "client"
	case DirServerToClient:
		return "server"
	default:
		return "mailer"
	}
}

// directionTo returns the receiving side of the Log.
func (l Log) directionTo() string {
	switch l.Direction {
	case DirClientToServer:
		return "server"
	case DirServerToClient:
		return "client"
	default:
		return "mailer"
	}
}
