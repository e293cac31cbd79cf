package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"empty header", "", "", false},
		{"lowercase scheme", "bearer abc", "", false},
		{"basic scheme", "Basic dXNlcjpwYXNz", "", false},
		{"no token", "Bearer ", "", false},
		{"no space", "Bearerabc", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractBearer(tt.header)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenPreview(t *testing.T) {
	token := strings.Repeat("x", 120)
	preview := TokenPreview(token)
	assert.True(t, strings.HasPrefix(preview, "xxxxxxxxxx..."))
	assert.Contains(t, preview, "len=120")
	assert.Less(t, len(preview), len(token))

	assert.Equal(t, "***(len=3)", TokenPreview("abc"))
}

func TestNormalizeMobile(t *testing.T) {
	got, err := NormalizeMobile("+91 98765 43210", "")
	assert.NoError(t, err)
	assert.Equal(t, "9876543210", got)

	got, err = NormalizeMobile("09876543210", "IN")
	assert.NoError(t, err)
	assert.Equal(t, "9876543210", got)

	_, err = NormalizeMobile("12", "IN")
	assert.Error(t, err)
}

func TestNormalizeMobile_RejectsOtherCountries(t *testing.T) {
	// Both have national significant number 6502530000 but belong to different countries.
	_, err := NormalizeMobile("+1 650 253 0000", "IN")
	assert.Error(t, err)

	got, err := NormalizeMobile("+1 650 253 0000", "US")
	assert.NoError(t, err)
	assert.Equal(t, "6502530000", got)
}
