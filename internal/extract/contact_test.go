package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"jane@example.com", true},
		{"  jane.doe+cuts@mail.example.co.uk ", true},
		{"jane@example", false},
		{"jane example.com", false},
		{"jane@@example.com", false},
		{"@example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.input))
		})
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"+1 555 123 4567", true},
		{"(555) 123-4567", true},
		{"555.123.4567", true},
		{"5551234", true},
		{"123456", false},
		{"1234567890123456", false},
		{"555-CALL-NOW", false},
		{"1+5551234567", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPhone(tt.input))
		})
	}
	assert.Equal(t, "15551234567", PhoneDigits("+1 (555) 123-4567"))
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("Jo"))
	assert.True(t, ValidName("  Jane Doe  "))
	assert.False(t, ValidName(" J "))
	assert.False(t, ValidName(""))
}
