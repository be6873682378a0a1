// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package log

// Nop is a Logger that discards every message
type Nop struct{}

// Debugf discards the Log
func (Nop) Debugf(Log) {}

// Infof discards the Log
func (Nop) Infof(Log) {}

// Warnf discards the Log
func (Nop) Warnf(Log) {}

// Errorf discards the Log
func (Nop) Errorf(Log) {}
