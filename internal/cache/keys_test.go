package cache

import "testing"

func TestHistoryKey(t *testing.T) {
	if got := HistoryKey("u1"); got != "history:u1" {
		t.Errorf("unexpected history key: %s", got)
	}
}

func TestCartKeys(t *testing.T) {
	if got := UserCartKey("u1"); got != "cart:user:u1" {
		t.Errorf("unexpected user cart key: %s", got)
	}
	if got := GuestCartKey("g1"); got != "cart:guest:g1" {
		t.Errorf("unexpected guest cart key: %s", got)
	}
}

func TestHashIP_StableAndTruncated(t *testing.T) {
	a := hashIP("203.0.113.7")
	b := hashIP("203.0.113.7")
	if a != b {
		t.Error("expected stable hash for same IP")
	}
	if len(a) != 16 {
		t.Errorf("expected 16 hex chars, got %d", len(a))
	}
	if hashIP("203.0.113.8") == a {
		t.Error("expected different IPs to hash differently")
	}
}
