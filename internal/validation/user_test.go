package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid password", "hunter2abc", false},
		{"Minimum length", "abcdef12", false},
		{"Too short", "ab1", true},
		{"Too long", strings.Repeat("a1", 65), true},
		{"Letters only", "abcdefgh", true},
		{"Digits only", "12345678", true},
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

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid username", "alice", false},
		{"With separators", "alice_b-c", false},
		{"Too short", "ab", true},
		{"Too long", strings.Repeat("a", 51), true},
		{"Invalid characters", "alice!", true},
		{"Leading underscore", "_alice", true},
		{"Trailing hyphen", "alice-", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid email", "alice@example.com", false},
		{"Subdomain", "a.b@mail.example.co", false},
		{"Missing at", "alice.example.com", true},
		{"Missing domain", "alice@", true},
		{"Missing TLD", "alice@example", true},
		{"Too long", strings.Repeat("a", 250) + "@x.com", true},
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
