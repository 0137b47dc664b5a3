// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package merkle validates the Merkle inclusion proofs carried in Blockcerts
// receipts (Chainpoint v2 style paths) and builds proofs for test fixtures
// and issuing tools.
package merkle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/hashutil"
)

// Direction tells on which side of the running hash a sibling sits.
type Direction string

const (
	// Left means the sibling is concatenated before the running hash.
	Left Direction = "left"
	// Right means the sibling is concatenated after the running hash.
	Right Direction = "right"
)

var (
	// ErrProofVerification indicates that a path does not reduce to the declared root.
	ErrProofVerification = errors.New("merkle: proof verification failed")

	// ErrEmptyLeaves indicates that a tree was requested over zero leaves.
	ErrEmptyLeaves = errors.New("merkle: no leaves")

	// ErrIndexOutOfRange indicates that a proof was requested for a missing leaf.
	ErrIndexOutOfRange = errors.New("merkle: leaf index out of range")
)

// Step is one entry of a Merkle path.
type Step struct {
	Hash      string    `json:"hash"`
	Direction Direction `json:"direction"`
}

// Proof binds a leaf to a root through a path.
type Proof struct {
	Leaf      string
	Root      string
	Path      []Step
	Algorithm hashutil.Algorithm
}

// Verify checks that p.Path reduces p.Leaf to p.Root.
// Every failure, including malformed path entries, wraps [ErrProofVerification].
func (p Proof) Verify() error {
	root, err := ComputeRoot(p.Leaf, p.Path, p.Algorithm)
	if err != nil {
		return err
	}
	if !hashutil.Equal(root, p.Root) {
		return fmt.Errorf("%w: computed root %s does not match declared root %s",
			ErrProofVerification, root, hashutil.Normalize(p.Root))
	}
	return nil
}

// ComputeRoot folds path over leaf and returns the resulting root as lowercase hex.
// An empty algorithm means SHA-256. Processing stops at the first malformed entry.
func ComputeRoot(leaf string, path []Step, alg hashutil.Algorithm) (string, error) {
	if alg == "" {
		alg = hashutil.SHA256
	}

	current, err := hashutil.Decode(leaf)
	if err != nil || len(current) == 0 {
		return "", fmt.Errorf("%w: invalid leaf hash %q", ErrProofVerification, leaf)
	}

	for i, step := range path {
		sibling, err := hashutil.Decode(step.Hash)
		if err != nil || len(sibling) == 0 {
			return "", fmt.Errorf("%w: invalid hash at path entry %d", ErrProofVerification, i)
		}

		var next []byte
		switch step.Direction {
		case Left:
			next, err = hashutil.Sum(alg, sibling, current)
		case Right:
			next, err = hashutil.Sum(alg, current, sibling)
		default:
			return "", fmt.Errorf("%w: invalid direction %q at path entry %d", ErrProofVerification, step.Direction, i)
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrProofVerification, err)
		}
		current = next
	}

	return fmt.Sprintf("%x", current), nil
}

// AlgorithmFor maps a Chainpoint receipt type to its digest algorithm.
// Unknown or empty types fall back to SHA-256, which every Blockcerts
// issuer has used in practice.
func AlgorithmFor(receiptType string) hashutil.Algorithm {
	t := strings.ToUpper(strings.TrimSpace(receiptType))
	switch {
	case strings.Contains(t, "SHA3-224"), strings.Contains(t, "SHA3_224"):
		return hashutil.SHA3_224
	case strings.Contains(t, "SHA3-256"), strings.Contains(t, "SHA3_256"):
		return hashutil.SHA3_256
	case strings.Contains(t, "SHA3-384"), strings.Contains(t, "SHA3_384"):
		return hashutil.SHA3_384
	case strings.Contains(t, "SHA3-512"), strings.Contains(t, "SHA3_512"):
		return hashutil.SHA3_512
	case strings.Contains(t, "SHA224"):
		return hashutil.SHA224
	case strings.Contains(t, "SHA384"):
		return hashutil.SHA384
	case strings.Contains(t, "SHA512"):
		return hashutil.SHA512
	default:
		return hashutil.SHA256
	}
}
