// Package admin implements the shared-secret gate in front of the record
// listing and export.
//
// The secret is only ever held as a bcrypt hash and is never written to a
// response, an error or the log.
package admin

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/ideflorbio/extrativista-sheets/store"
)

const (
	DefaultTTL = 8 * time.Hour

	issuer  = "extrativista-sheets"
	subject = "admin"
)

var (
	ErrNotConfigured = errors.New("admin password not configured")
	ErrAccessDenied  = errors.New("incorrect password")
	ErrInvalidToken  = errors.New("invalid or expired admin session")
)

// Reader is the read side of the record store.
type Reader interface {
	Fetch(ctx context.Context) store.Result
}

type Gate struct {
	hash []byte
	key  []byte
	ttl  time.Duration
	now  func() time.Time
}

// NewGate creates a gate for the secret. A secret that is already a bcrypt
// hash is used as is. An empty secret yields a gate that refuses every
// attempt with ErrNotConfigured. An empty key is replaced with a random one,
// which invalidates admin sessions on restart.
func NewGate(secret string, key []byte, ttl time.Duration) (*Gate, error) {
	gate := Gate{
		key: key,
		ttl: ttl,
		now: time.Now,
	}

	if gate.ttl <= 0 {
		gate.ttl = DefaultTTL
	}

	if len(gate.key) == 0 {
		gate.key = make([]byte, 32)
		if _, err := rand.Read(gate.key); err != nil {
			return nil, fmt.Errorf("unable to generate admin token key (%w)", err)
		}
	}

	switch {
	case secret == "":

	case isBcrypt(secret):
		if _, err := bcrypt.Cost([]byte(secret)); err != nil {
			return nil, fmt.Errorf("invalid admin password hash (%w)", err)
		}
		gate.hash = []byte(secret)

	default:
		hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("unable to hash admin password (%w)", err)
		}
		gate.hash = hash
	}

	return &gate, nil
}

func (g *Gate) Configured() bool {
	return len(g.hash) > 0
}

// Check compares the password with the secret.
func (g *Gate) Check(password string) error {
	if !g.Configured() {
		return ErrNotConfigured
	}

	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(password)); err != nil {
		return ErrAccessDenied
	}

	return nil
}

// Open returns the full record collection if the password is correct.
func (g *Gate) Open(ctx context.Context, password string, r Reader) (store.Result, error) {
	if err := g.Check(password); err != nil {
		return store.Result{}, err
	}

	return r.Fetch(ctx), nil
}

// Login checks the password and issues a signed session token.
func (g *Gate) Login(password string) (string, time.Time, error) {
	if err := g.Check(password); err != nil {
		return "", time.Time{}, err
	}

	now := g.now()
	expires := now.Add(g.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("unable to sign admin token (%w)", err)
	}

	return token, expires, nil
}

// Validate checks a session token issued by Login.
func (g *Gate) Validate(token string) error {
	if !g.Configured() {
		return ErrNotConfigured
	}

	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return g.key, nil
	})

	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}

	if claims.Issuer != issuer || claims.Subject != subject {
		return ErrInvalidToken
	}

	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(g.now()) {
		return ErrInvalidToken
	}

	return nil
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
