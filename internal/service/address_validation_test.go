package service

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"simple", "Home", false},
		{"unicode", "家", false},
		{"max length", strings.Repeat("a", MaxTitleLength), false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxTitleLength+1), true},
		{"unicode counts runes not bytes", strings.Repeat("家", MaxTitleLength), false},
		{"unicode too long", strings.Repeat("家", MaxTitleLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTitle(tt.title)
			if tt.wantErr && !errors.Is(err, ErrInvalidTitle) {
				t.Errorf("expected ErrInvalidTitle, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}
