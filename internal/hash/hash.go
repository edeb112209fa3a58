// Package hash provides content fingerprints for UI trees.
//
// A fingerprint is the SHA-256 of the tree's RFC 8785 canonical JSON, so two
// trees with the same structure and prop values share a fingerprint regardless
// of how their JSON was produced. Prop order does not affect the fingerprint.
// The package provides both a real implementation and a fake for testing.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"

	"github.com/danieljhkim/uiforge/internal/tree"
)

// Hasher provides an abstraction for tree fingerprinting.
type Hasher interface {
	// Fingerprint computes the content fingerprint of the tree rooted at n.
	Fingerprint(n *tree.Node) (string, error)
}

// SHA256Hasher implements Hasher using SHA-256 over canonical JSON.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// Fingerprint computes the SHA-256 fingerprint of n. A nil tree has the
// fingerprint of the JSON literal null.
func (h *SHA256Hasher) Fingerprint(n *tree.Node) (string, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tree: %w", err)
	}
	canonical, err := jcs.Transform(data)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize tree: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Fingerprint computes the SHA-256 fingerprint of n.
func Fingerprint(n *tree.Node) (string, error) {
	return NewSHA256Hasher().Fingerprint(n)
}

// Short returns the first 12 characters of a fingerprint for display.
func Short(fp string) string {
	if len(fp) <= 12 {
		return fp
	}
	return fp[:12]
}

// FakeHasher implements Hasher with deterministic fingerprints for testing.
type FakeHasher struct {
	fingerprints map[*tree.Node]string
	err          error
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{
		fingerprints: make(map[*tree.Node]string),
	}
}

// SetFingerprint sets the fingerprint returned for a specific node (for testing).
func (h *FakeHasher) SetFingerprint(n *tree.Node, fp string) {
	h.fingerprints[n] = fp
}

// SetError makes every subsequent Fingerprint call fail with err.
func (h *FakeHasher) SetError(err error) {
	h.err = err
}

// Fingerprint returns the predetermined fingerprint for n.
func (h *FakeHasher) Fingerprint(n *tree.Node) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	if fp, ok := h.fingerprints[n]; ok {
		return fp, nil
	}
	// Default fingerprint if not set
	return "fakehash", nil
}
