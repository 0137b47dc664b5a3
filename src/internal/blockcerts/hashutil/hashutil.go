// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package hashutil computes and compares the content hashes used when
// verifying a Blockcerts credential.
//
// Hashes travel as hex strings through receipts and explorer responses, and
// issuers are not consistent about case or a leading "0x". [Equal] and
// [Normalize] hide those differences.
package hashutil

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Algorithm names a supported digest function.
type Algorithm string

const (
	SHA224   Algorithm = "sha224"
	SHA256   Algorithm = "sha256"
	SHA384   Algorithm = "sha384"
	SHA512   Algorithm = "sha512"
	SHA3_224 Algorithm = "sha3-224"
	SHA3_256 Algorithm = "sha3-256"
	SHA3_384 Algorithm = "sha3-384"
	SHA3_512 Algorithm = "sha3-512"
)

var (
	// ErrUnsupportedAlgorithm indicates that no digest function is registered for the algorithm.
	ErrUnsupportedAlgorithm = errors.New("hashutil: unsupported hash algorithm")

	// ErrInvalidHex indicates that a value is not a valid hex encoded digest.
	ErrInvalidHex = errors.New("hashutil: invalid hex digest")
)

var constructors = map[Algorithm]func() hash.Hash{
	SHA224:   sha256.New224,
	SHA256:   sha256.New,
	SHA384:   sha512.New384,
	SHA512:   sha512.New,
	SHA3_224: sha3.New224,
	SHA3_256: sha3.New256,
	SHA3_384: sha3.New384,
	SHA3_512: sha3.New512,
}

// New returns a fresh hash.Hash for alg.
func New(alg Algorithm) (hash.Hash, error) {
	ctor, ok := constructors[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
	return ctor(), nil
}

// Size returns the digest size in bytes of alg, or 0 if alg is unknown.
func Size(alg Algorithm) int {
	h, err := New(alg)
	if err != nil {
		return 0
	}
	return h.Size()
}

// Sum hashes data with alg.
func Sum(alg Algorithm, data ...[]byte) ([]byte, error) {
	h, err := New(alg)
	if err != nil {
		return nil, err
	}
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil), nil
}

// SHA256Hex returns the lowercase hex SHA-256 digest of data.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Normalize lowercases a hex digest and strips surrounding whitespace and a "0x" prefix.
func Normalize(h string) string {
	h = strings.TrimSpace(h)
	if len(h) >= 2 && (h[:2] == "0x" || h[:2] == "0X") {
		h = h[2:]
	}
	return strings.ToLower(h)
}

// Equal reports whether two hex digests are the same, ignoring case and a "0x" prefix.
// Two empty values are never equal.
func Equal(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb
}

// Decode decodes a hex digest after normalizing it.
func Decode(h string) ([]byte, error) {
	b, err := hex.DecodeString(Normalize(h))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return b, nil
}
