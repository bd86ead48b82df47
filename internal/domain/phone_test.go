package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		valid bool
	}{
		{"bare digits", "9876543210", "9876543210", true},
		{"leading plus", "+919876543210", "919876543210", true},
		{"spaces and dashes", "+91 98765-43210", "919876543210", true},
		{"parentheses", "(0484) 123-4567", "04841234567", true},
		{"minimum length", "12345678", "12345678", true},
		{"maximum length", "123456789012345", "123456789012345", true},
		{"too short", "1234567", "", false},
		{"too long", "1234567890123456", "", false},
		{"letters", "98765abc10", "", false},
		{"plus in the middle", "98+7654321", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SanitizePhone(tt.in)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
