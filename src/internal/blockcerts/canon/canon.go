// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package canon defines the canonicalization collaborator used to turn a
// certificate document into a byte-stable form before hashing.
//
// The default implementation is [RFC 8785] JSON Canonicalization (JCS).
// Issuers that anchored JSON-LD URDNA2015 n-quads plug their own
// [Canonicalizer] into the verifier instead.
//
// [RFC 8785]: https://www.rfc-editor.org/rfc/rfc8785
package canon

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
)

// ErrCanonicalization indicates that a document could not be canonicalized.
var ErrCanonicalization = errors.New("canon: canonicalization failed")

// Canonicalizer converts a decoded document into deterministic bytes.
// Implementations must be byte-stable for equal inputs.
type Canonicalizer interface {
	Canonicalize(document map[string]any) ([]byte, error)
}

// Func adapts a plain function to [Canonicalizer].
type Func func(document map[string]any) ([]byte, error)

// Canonicalize calls f.
func (f Func) Canonicalize(document map[string]any) ([]byte, error) { return f(document) }

// JCS canonicalizes documents with RFC 8785.
type JCS struct{}

// Canonicalize marshals document and transforms it into its JCS form.
func (JCS) Canonicalize(document map[string]any) ([]byte, error) {
	if document == nil {
		return nil, fmt.Errorf("%w: nil document", ErrCanonicalization)
	}
	raw, err := json.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCanonicalization, err)
	}
	out, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCanonicalization, err)
	}
	return out, nil
}

// Default is the canonicalizer used when the caller does not supply one.
var Default Canonicalizer = JCS{}
