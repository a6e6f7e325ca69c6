package utils

import (
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	SetSecret("test-secret")
	sid := NewSessionID()

	token, err := GenerateSessionToken(sid, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ValidateSessionToken(token)
	if err != nil {
		t.Fatalf("ValidateSessionToken() error = %v", err)
	}
	if claims.SessionID != sid {
		t.Errorf("sid = %q, want %q", claims.SessionID, sid)
	}
}

func TestSessionTokenRejectsOtherSecretAndExpiry(t *testing.T) {
	SetSecret("one")
	token, _ := GenerateSessionToken(NewSessionID(), time.Hour)
	SetSecret("two")
	if _, err := ValidateSessionToken(token); err == nil {
		t.Error("token signed with another secret was accepted")
	}

	expired, _ := GenerateSessionToken(NewSessionID(), -time.Minute)
	if _, err := ValidateSessionToken(expired); err == nil {
		t.Error("expired token was accepted")
	}
}

func TestNewSessionIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewSessionID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Terms & Conditions", "terms-conditions"},
		{"  Privacy Policy  ", "privacy-policy"},
		{"about-us", "about-us"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
