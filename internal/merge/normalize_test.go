package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "BENALI", "benali"},
		{"strips diacritics", "Jérôme", "jerome"},
		{"strips mixed diacritics", "Ñoño Müller", "nono muller"},
		{"trims and collapses whitespace", "  van  der   Berg ", "van der berg"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeName(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeName(got), "should be idempotent")
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
		ok   bool
	}{
		{"iso", "1900-05-01", time.Date(1900, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{"slashes day first", "01/05/1900", time.Date(1900, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{"dashes day first", "01-05-1900", time.Date(1900, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{"year only", "1900", time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"iso with time suffix", "1900-05-01T12:34:56", time.Date(1900, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{"garbage", "next tuesday", time.Time{}, false},
		{"empty", "", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
			}
		})
	}
}
