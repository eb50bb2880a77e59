// Copyright 2025 The Ingesta Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"strconv"
	"strings"
)

// String Sanitization
//
// The exported NDJSON is queried by engines (Athena, Presto) whose LazySimple
// and JSON serdes mishandle embedded line breaks and non-ASCII control
// sequences. Sanitize makes string values safe for those consumers:
//
//   - \r, \n and \t each become a single space
//   - every rune outside printable ASCII (0x20-0x7E) is removed

// Sanitize returns s with line breaks and tabs flattened to spaces and all
// non-printable-ASCII runes removed.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\r', '\n', '\t':
			return ' '
		}
		if r < 0x20 || r > 0x7e {
			return -1
		}
		return r
	}, s)
}

// SanitizeValue applies Sanitize to string values and stringifies booleans.
// All other value types pass through unchanged; casting handles them.
func SanitizeValue(v any) any {
	switch t := v.(type) {
	case string:
		return Sanitize(t)
	case bool:
		return strconv.FormatBool(t)
	}
	return v
}
