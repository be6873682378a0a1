// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

type jsonLog struct {
	Direction jsonDir   `json:"direction"`
	Level     string    `json:"level"`
	Message   string    `json:"msg"`
	ZMessage  string    `json:"message"`
	Time      time.Time `json:"time"`
}

type jsonDir struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func TestNewJSON(t *testing.T) {
	var b bytes.Buffer
	l := NewJSON(&b, LevelDebug)
	if l.level != LevelDebug {
		t.Error("Expected level to be LevelDebug, got ", l.level)
	}
	if l.log == nil {
		t.Error("logger not initialized")
	}
}

// structuredLoggers returns constructors of the structured loggers under test
func structuredLoggers() map[string]func(*bytes.Buffer, Level) Logger {
	return map[string]func(*bytes.Buffer, Level) Logger{
		"JSONlog": func(b *bytes.Buffer, level Level) Logger { return NewJSON(b, level) },
		"Zerolog": func(b *bytes.Buffer, level Level) Logger { return NewZerolog(b, level) },
	}
}

func TestStructuredLoggers(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		wantLevel string
		logf      func(Logger, Log)
	}{
		{"Debugf", LevelDebug, "debug", Logger.Debugf},
		{"Infof", LevelInfo, "info", Logger.Infof},
		{"Warnf", LevelWarn, "warn", Logger.Warnf},
		{"Errorf", LevelError, "error", Logger.Errorf},
	}
	directions := []struct {
		dir      Direction
		from, to string
	}{
		{DirServerToClient, "server", "client"},
		{DirClientToServer, "client", "server"},
		{DirNone, "mailer", "mailer"},
	}
	for loggerName, newLogger := range structuredLoggers() {
		for _, tt := range tests {
			t.Run(loggerName+"/"+tt.name, func(t *testing.T) {
				for _, dir := range directions {
					var b bytes.Buffer
					l := newLogger(&b, tt.level)
					tt.logf(l, Log{Direction: dir.dir, Format: "test %s", Messages: []interface{}{"foo"}})
					jl, err := unmarshalLog(b.Bytes())
					if err != nil {
						t.Fatalf("unmarshal json log message failed: %s", err)
					}
					if jl.Direction.From != dir.from || jl.Direction.To != dir.to {
						t.Errorf("expected direction %s -> %s, got: %s -> %s", dir.from, dir.to,
							jl.Direction.From, jl.Direction.To)
					}
					if jl.Message != "test foo" {
						t.Errorf("expected message: test foo, got %s", jl.Message)
					}
					if !equalFoldASCII(jl.Level, tt.wantLevel) {
						t.Errorf("expected level: %s, got %s", tt.wantLevel, jl.Level)
					}
				}
			})
		}
		t.Run(loggerName+"/suppressed", func(t *testing.T) {
			var b bytes.Buffer
			l := newLogger(&b, LevelError)
			l.Debugf(Log{Direction: DirServerToClient, Format: "test"})
			l.Infof(Log{Direction: DirServerToClient, Format: "test"})
			l.Warnf(Log{Direction: DirServerToClient, Format: "test"})
			if b.String() != "" {
				t.Errorf("messages were not expected to be logged: %s", b.String())
			}
		})
	}
}

func TestNewJSON_DefaultLevel(t *testing.T) {
	var b bytes.Buffer
	l := NewJSON(&b, 999)
	l.Debugf(Log{Direction: DirServerToClient, Format: "test %s", Messages: []interface{}{"foo"}})
	jl, err := unmarshalLog(b.Bytes())
	if err != nil {
		t.Fatalf("unmarshal json log message failed: %s", err)
	}
	if jl.Message != "test foo" {
		t.Errorf("expected message: test foo, got %s", jl.Message)
	}
}

// unmarshalLog will unmarshal the JSON log message into the jsonLog struct. zerolog
// writes the message as "message" instead of "msg".
func unmarshalLog(j []byte) (jsonLog, error) {
	var jl jsonLog
	if err := json.Unmarshal(j, &jl); err != nil {
		return jl, err
	}
	if jl.Message == "" {
		jl.Message = jl.ZMessage
	}
	return jl, nil
}

// equalFoldASCII compares slog's upper case and zerolog's lower case level names
func equalFoldASCII(a, b string) bool {
	return bytes.EqualFold([]byte(a), []byte(b))
}
