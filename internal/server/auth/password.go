package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes and verifies passwords with bcrypt. Each Hash call uses
// a fresh random salt, so equal passwords yield different digests.
//
// bcrypt itself cannot be interrupted; the context only bounds how long the
// caller waits. The abandoned computation finishes in the background.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt digest of plaintext.
func (h *BcryptHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		hash []byte
		err  error
	}

	done := make(chan result, 1)
	go func() {
		b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
		done <- result{hash: b, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		if r.err != nil {
			return "", r.err
		}
		return string(r.hash), nil
	}
}

// Verify reports whether plaintext matches hash. A malformed hash is a
// mismatch, not an error; the only error is the context ending first.
func (h *BcryptHasher) Verify(ctx context.Context, plaintext, hash string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	done := make(chan bool, 1)
	go func() {
		done <- bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case ok := <-done:
		return ok, nil
	}
}
