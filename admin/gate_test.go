package admin

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ideflorbio/extrativista-sheets/records"
	"github.com/ideflorbio/extrativista-sheets/store"
)

const secret = "flota-trombetas"

func newStore(t *testing.T, n int) *store.Store {
	collection := records.Collection{}
	for i := 0; i < n; i++ {
		collection = append(collection, records.Record{Name: "Extrativista", CPF: string(rune('0' + i))})
	}

	return store.New(store.NewMemorySheet(records.Rows(collection)), store.Rewrite)
}

func TestOpenWithCorrectSecret(t *testing.T) {
	gate, err := NewGate(secret, []byte("key"), time.Hour)
	if err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	s := newStore(t, 7)

	result, err := gate.Open(context.Background(), secret, s)
	if err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if result.Len() != 7 {
		t.Errorf("Incorrect number of records - expected:%v, got:%v", 7, result.Len())
	}

	if err := s.Append(context.Background(), records.Record{Name: "Maria", CPF: "9"}); err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if result, _ := gate.Open(context.Background(), secret, s); result.Len() != 8 {
		t.Errorf("Incorrect number of records - expected:%v, got:%v", 8, result.Len())
	}
}

func TestOpenWithIncorrectSecret(t *testing.T) {
	gate, _ := NewGate(secret, nil, time.Hour)

	for _, password := range []string{"", "flota", "FLOTA-TROMBETAS", secret + " "} {
		result, err := gate.Open(context.Background(), password, newStore(t, 3))
		if !errors.Is(err, ErrAccessDenied) {
			t.Errorf("Expected ErrAccessDenied for %q, got %v", password, err)
		}

		if result.Records != nil || result.Len() != 0 {
			t.Errorf("Records returned for incorrect password %q", password)
		}

		if strings.Contains(err.Error(), secret) {
			t.Errorf("Error message discloses the secret: %v", err)
		}
	}
}

func TestGateNotConfigured(t *testing.T) {
	gate, err := NewGate("", nil, time.Hour)
	if err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if gate.Configured() {
		t.Errorf("Gate without a secret reported as configured")
	}

	if _, err := gate.Open(context.Background(), "", newStore(t, 1)); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestGateWithBcryptSecret(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	gate, err := NewGate(string(hash), nil, time.Hour)
	if err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if err := gate.Check(secret); err != nil {
		t.Errorf("Unexpected error for correct password (%v)", err)
	}

	if err := gate.Check(string(hash)); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("Hash accepted as password")
	}
}

func TestLoginToken(t *testing.T) {
	gate, _ := NewGate(secret, []byte("key"), time.Hour)

	token, expires, err := gate.Login(secret)
	if err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if time.Until(expires) <= 0 {
		t.Errorf("Token already expired: %v", expires)
	}

	if err := gate.Validate(token); err != nil {
		t.Errorf("Unexpected error validating token (%v)", err)
	}

	if _, _, err := gate.Login("wrong"); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("Expected ErrAccessDenied, got %v", err)
	}

	other, _ := NewGate(secret, []byte("other key"), time.Hour)
	if err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Token accepted with a different key")
	}

	if err := gate.Validate(token + "x"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Tampered token accepted")
	}
}

func TestLoginTokenExpiry(t *testing.T) {
	gate, _ := NewGate(secret, []byte("key"), time.Hour)
	gate.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := gate.Login(secret)
	if err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	gate.now = time.Now
	if err := gate.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestLimiter(t *testing.T) {
	limiter := NewLimiter(time.Hour, 3)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("10.0.0.1") {
			t.Fatalf("Attempt %v refused", i+1)
		}
	}

	if limiter.Allow("10.0.0.1") {
		t.Errorf("Fourth attempt allowed")
	}

	if !limiter.Allow("10.0.0.2") {
		t.Errorf("Attempt from another client refused")
	}
}
