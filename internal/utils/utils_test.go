package utils

import (
	"strings"
	"testing"
	"time"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash equals plain text")
	}
	if !VerifyPassword(hash, "hunter22") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "hunter23") {
		t.Error("wrong password accepted")
	}
	if VerifyPassword("", "") || VerifyPassword("not-a-hash", "hunter22") {
		t.Error("empty or malformed hash matched")
	}
}

func TestHashPasswordOutOfRangeCost(t *testing.T) {
	hash, err := HashPassword("hunter22", 99)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$10$") {
		t.Errorf("hash %q not produced with the default cost", hash)
	}
}

func TestSessionToken(t *testing.T) {
	tok, err := NewSessionToken("s3cret", "sid-1", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}
	sid, err := ParseSessionToken("s3cret", tok.Token)
	if err != nil || sid != "sid-1" {
		t.Fatalf("ParseSessionToken = (%q, %v), want sid-1", sid, err)
	}

	if _, err := ParseSessionToken("other", tok.Token); err == nil {
		t.Error("token verified with the wrong secret")
	}
	if _, err := ParseSessionToken("s3cret", tok.Token+"x"); err == nil {
		t.Error("tampered token verified")
	}

	expired, err := NewSessionToken("s3cret", "sid-2", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}
	if _, err := ParseSessionToken("s3cret", expired.Token); err == nil {
		t.Error("expired token verified")
	}
}
