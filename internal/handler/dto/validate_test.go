package dto

import (
	"strings"
	"testing"
)

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		Username:  "itsasmurf",
		Password:  "p4ssw0rd!",
		Password2: "p4ssw0rd!",
		Mobile:    "13812345678",
		Allow:     true,
	}
}

func TestValidate_RegisterRequest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RegisterRequest)
		wantErr bool
	}{
		{"valid", func(r *RegisterRequest) {}, false},
		{"username too short", func(r *RegisterRequest) { r.Username = "abcd" }, true},
		{"username too long", func(r *RegisterRequest) { r.Username = strings.Repeat("a", 21) }, true},
		{"username bad chars", func(r *RegisterRequest) { r.Username = "has space!" }, true},
		{"password too short", func(r *RegisterRequest) { r.Password, r.Password2 = "short", "short" }, true},
		{"password mismatch", func(r *RegisterRequest) { r.Password2 = "different1" }, true},
		{"bad mobile prefix", func(r *RegisterRequest) { r.Mobile = "12812345678" }, true},
		{"mobile too short", func(r *RegisterRequest) { r.Mobile = "1381234567" }, true},
		{"terms not accepted", func(r *RegisterRequest) { r.Allow = false }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegisterRequest()
			tt.mutate(&req)
			err := Validate(req)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func validAddressRequest() AddressRequest {
	return AddressRequest{
		Title:    "Home",
		Receiver: "Li Lei",
		Province: "Guangdong",
		City:     "Shenzhen",
		District: "Nanshan",
		Place:    "1 Keji Road",
		Mobile:   "13812345678",
	}
}

func TestValidate_AddressRequest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AddressRequest)
		wantErr bool
	}{
		{"valid", func(r *AddressRequest) {}, false},
		{"optional tel and email", func(r *AddressRequest) { r.Tel = "0755-1234567"; r.Email = "a@example.com" }, false},
		{"missing title", func(r *AddressRequest) { r.Title = "" }, true},
		{"title too long", func(r *AddressRequest) { r.Title = strings.Repeat("a", 21) }, true},
		{"missing receiver", func(r *AddressRequest) { r.Receiver = "" }, true},
		{"bad mobile", func(r *AddressRequest) { r.Mobile = "not-a-phone" }, true},
		{"bad email", func(r *AddressRequest) { r.Email = "not-an-email" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validAddressRequest()
			tt.mutate(&req)
			err := Validate(req)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidate_HistoryPushRequest(t *testing.T) {
	if err := Validate(HistoryPushRequest{SKUID: 7}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if err := Validate(HistoryPushRequest{SKUID: 0}); err == nil {
		t.Error("expected validation error for zero sku_id")
	}
	if err := Validate(HistoryPushRequest{SKUID: -1}); err == nil {
		t.Error("expected validation error for negative sku_id")
	}
}

func TestValidate_EmailRequest(t *testing.T) {
	if err := Validate(EmailRequest{Email: "a@example.com"}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if err := Validate(EmailRequest{Email: "nope"}); err == nil {
		t.Error("expected validation error for malformed email")
	}
}
