// Package service defines interfaces for core, stateless domain logic.
package service

// TokenSource issues and hashes the opaque tokens handed to clients in the
// session cookie. Only the hash ever reaches storage; a leaked database dump
// does not yield usable cookies.
type TokenSource interface {
	// Generate returns a new cryptographically random token.
	Generate() (string, error)

	// Hash returns the keyed hash of a raw token for storage and lookup.
	Hash(token string) string
}
