// SPDX-FileCopyrightText: 2026 The mailit Authors
//
// SPDX-License-Identifier: MIT

package mailit

import (
	"math/rand/v2"
	"strings"
)

// BoundaryPrefix is the fixed leading part of every generated MIME boundary
const BoundaryPrefix = "----=_NextPart_"

// BoundaryChars is the range of characters the random part of a boundary is drawn from
const BoundaryChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789._"

// DefaultBoundaryLength is the length of the random part of a boundary
const DefaultBoundaryLength = 25

// GenerateBoundary returns a new MIME boundary consisting of BoundaryPrefix followed by
// length characters drawn uniformly from BoundaryChars. A length <= 0 falls back to
// DefaultBoundaryLength.
//
// The boundary is random, not secret: uniqueness against the message content is assumed,
// not verified.
func GenerateBoundary(length int) string {
	if length <= 0 {
		length = DefaultBoundaryLength
	}
	var sb strings.Builder
	sb.Grow(len(BoundaryPrefix) + length)
	sb.WriteString(BoundaryPrefix)
	for i := 0; i < length; i++ {
		sb.WriteByte(BoundaryChars[randNum(len(BoundaryChars))])
	}
	return sb.String()
}

// randNum returns a random number between 0 and maxval (exclusive). If maxval is less
// than or equal to 0, it returns 0.
func randNum(maxval int) int {
	if maxval <= 0 {
		return 0
	}
	return rand.IntN(maxval)
}
