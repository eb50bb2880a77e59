// Copyright 2025 The Ingesta Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "clean string unchanged",
			input: "tiktok_user_42",
			want:  "tiktok_user_42",
		},
		{
			name:  "line breaks become spaces",
			input: "first\nsecond\rthird",
			want:  "first second third",
		},
		{
			name:  "tabs become spaces",
			input: "a\tb",
			want:  "a b",
		},
		{
			name:  "windows line ending becomes two spaces",
			input: "a\r\nb",
			want:  "a  b",
		},
		{
			name:  "non-ascii removed",
			input: "café ❤️ #fyp",
			want:  "caf  #fyp",
		},
		{
			name:  "control characters removed",
			input: "a\x00b\x1fc",
			want:  "abc",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeValue(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  any
	}{
		{name: "string sanitized", input: "a\nb", want: "a b"},
		{name: "bool stringified", input: true, want: "true"},
		{name: "false stringified", input: false, want: "false"},
		{name: "int untouched", input: int64(7), want: int64(7)},
		{name: "float untouched", input: 1.5, want: 1.5},
		{name: "nil untouched", input: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(SanitizeValue(tt.input), tt.want); diff != "" {
				t.Errorf("SanitizeValue(%v) diff (-got +want):\n%s", tt.input, diff)
			}
		})
	}
}
