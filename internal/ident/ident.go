// Package ident mints session identifiers.
package ident

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// New derives one version-4 identifier from src: 16 bytes are drawn,
// the version nibble is forced to 4 and the variant nibble to one of
// 8/9/a/b, and the result is formatted in the canonical 8-4-4-4-12
// lowercase hex grouping. A deterministic src yields a deterministic
// identifier, which keeps callers unit-testable.
func New(src io.Reader) (string, error) {
	id, err := uuid.NewRandomFromReader(src)
	if err != nil {
		return "", fmt.Errorf("ident: %w", err)
	}
	return id.String(), nil
}

// NewRandom draws from the process-wide random source.
func NewRandom() (string, error) {
	return New(rand.Reader)
}
