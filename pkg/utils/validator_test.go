package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"jane@institute.example", false},
		{"first.last+tag@sub.domain.co", false},
		{"no-at-sign", true},
		{"missing@tld", true},
		{"", true},
		{"spaces in@mail.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello world", SanitizeString("hello\x00 world\x1f"))
	assert.Equal(t, "plain", SanitizeString("plain"))
}
