package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "alice@example.com", false},
		{"Valid with plus", "alice+tag@example.co.uk", false},
		{"Missing at", "alice.example.com", true},
		{"Missing domain", "alice@", true},
		{"Too long", strings.Repeat("a", 250) + "@x.io", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "Str0ngpassword", false},
		{"Too short", "Ab1", true},
		{"No uppercase", "str0ngpassword", true},
		{"No lowercase", "STR0NGPASSWORD", true},
		{"No digit", "Strongpassword", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePromptFields(t *testing.T) {
	assert.NoError(t, ValidatePromptFields("Title", "Desc", "Content"))
	assert.Error(t, ValidatePromptFields("", "Desc", "Content"))
	assert.Error(t, ValidatePromptFields("Title", "  ", "Content"))
	assert.Error(t, ValidatePromptFields("Title", "Desc", ""))
	assert.Error(t, ValidatePromptFields(strings.Repeat("t", 201), "Desc", "Content"))
}
