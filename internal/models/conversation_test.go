package models

import (
	"strings"
	"testing"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "Short content kept verbatim",
			content:  "ciao",
			expected: "ciao",
		},
		{
			name:     "Exactly thirty runes kept verbatim",
			content:  strings.Repeat("a", 30),
			expected: strings.Repeat("a", 30),
		},
		{
			name:     "Longer content truncated with ellipsis",
			content:  strings.Repeat("a", 31),
			expected: strings.Repeat("a", 30) + "...",
		},
		{
			name:     "Truncation counts runes not bytes",
			content:  strings.Repeat("è", 35),
			expected: strings.Repeat("è", 30) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveTitle(tt.content)
			if got != tt.expected {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tt.content, got, tt.expected)
			}
		})
	}
}

func TestDeriveTitleIsDeterministic(t *testing.T) {
	content := strings.Repeat("x", 50)
	first := DeriveTitle(content)
	for i := 0; i < 5; i++ {
		if got := DeriveTitle(content); got != first {
			t.Fatalf("DeriveTitle not deterministic: %q vs %q", got, first)
		}
	}
}
