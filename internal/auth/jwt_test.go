package auth

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestJWTRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret-key-32-bytes-long!!!", time.Hour)

	token, err := manager.Generate(42)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	userID, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if userID != 42 {
		t.Errorf("Expected user id 42, got %d", userID)
	}
}

func TestJWTExpired(t *testing.T) {
	manager := NewJWTManager("test-secret-key-32-bytes-long!!!", -time.Minute)

	token, err := manager.Generate(42)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	manager := NewJWTManager("secret-one", time.Hour)
	other := NewJWTManager("secret-two", time.Hour)

	token, err := manager.Generate(42)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestAdminGuard(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash key: %v", err)
	}

	guard := NewAdminGuard(string(hash))
	if !guard.Enabled() {
		t.Fatal("Expected guard to be enabled")
	}
	if err := guard.Verify("letmein"); err != nil {
		t.Errorf("Expected correct key to verify, got %v", err)
	}
	if err := guard.Verify("wrong"); !errors.Is(err, ErrBadAdminKey) {
		t.Errorf("Expected ErrBadAdminKey, got %v", err)
	}

	disabled := NewAdminGuard("")
	if disabled.Enabled() {
		t.Error("Empty hash must disable the guard")
	}
	if err := disabled.Verify("anything"); !errors.Is(err, ErrBadAdminKey) {
		t.Errorf("Disabled guard must refuse every key, got %v", err)
	}
}
