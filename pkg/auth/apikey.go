package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
)

// keyEntry maps a key hash to an identity.
type keyEntry struct {
	keyHash  [32]byte
	identity Identity
}

// APIKeyAuthenticator validates bearer tokens against a static key store
// using SHA-256 hashing and constant-time comparison.
type APIKeyAuthenticator struct {
	keys []keyEntry
}

// RawKeyEntry is the configuration format for API keys.
type RawKeyEntry struct {
	Key     string
	Subject string
}

// NewAPIKey creates an API key authenticator from a list of raw keys.
// Keys are hashed immediately; plaintext keys are not stored.
func NewAPIKey(entries []RawKeyEntry) *APIKeyAuthenticator {
	a := &APIKeyAuthenticator{}
	for _, e := range entries {
		a.keys = append(a.keys, keyEntry{
			keyHash:  sha256.Sum256([]byte(e.Key)),
			identity: Identity{Subject: e.Subject},
		})
	}
	return a
}

// Authenticate extracts the bearer token and validates it.
// Returns Yes if valid, No if a bearer token is present but invalid,
// Abstain if no Authorization header or not a Bearer token.
func (a *APIKeyAuthenticator) Authenticate(_ context.Context, r *http.Request) Result {
	token, ok := bearerToken(r)
	if !ok {
		return Result{Decision: Abstain}
	}
	if token == "" {
		return Result{Decision: No, Err: ErrUnauthenticated}
	}

	// Hash the token and compare against stored hashes.
	tokenHash := sha256.Sum256([]byte(token))

	for _, entry := range a.keys {
		if subtle.ConstantTimeCompare(tokenHash[:], entry.keyHash[:]) == 1 {
			// Copy identity to avoid shared state.
			id := entry.identity
			return Result{Decision: Yes, Identity: &id}
		}
	}

	// Bearer token present but not found.
	return Result{Decision: No, Err: ErrUnauthenticated}
}
