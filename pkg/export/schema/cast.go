// Copyright 2025 The Ingesta Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the wire format of exported date columns.
const DateFormat = "2006-01-02"

// Cast coerces the fields of doc to the declared column types, in place.
//
// A value that cannot be coerced becomes nil (exported as JSON null) rather
// than failing the document. Fields absent from the document stay absent, and
// fields absent from the schema pass through untouched.
func Cast(doc map[string]any, cols []Column) map[string]any {
	for _, col := range cols {
		v, ok := doc[col.Name]
		if !ok {
			continue
		}
		doc[col.Name] = castValue(v, col.Type)
	}
	return doc
}

func castValue(v any, t Type) any {
	if v == nil {
		return nil
	}
	switch t {
	case Int:
		if n, ok := toInt64(v); ok {
			return n
		}
		return nil
	case Float:
		if f, ok := toFloat64(v); ok {
			return f
		}
		return nil
	case Date:
		if d, ok := toDate(v); ok {
			return d
		}
		return nil
	default:
		return toString(v)
	}
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case float32:
		return int64(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int64(t), true
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		// Numeric strings like "12.0" still coerce.
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f), true
		}
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// dateLayouts are tried in order when coercing a string to a date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	DateFormat,
	"2006/01/02",
}

func toDate(v any) (string, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(DateFormat), true
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC().Format(DateFormat), true
			}
		}
	case int64:
		// Epoch milliseconds, the common encoding for datetimes that reach
		// us as bare numbers.
		return time.UnixMilli(t).UTC().Format(DateFormat), true
	case float64:
		return time.UnixMilli(int64(t)).UTC().Format(DateFormat), true
	}
	return "", false
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
