// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package certificate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/merkle"
)

// Anchor records where a Merkle root was published.
type Anchor struct {
	SourceID string `json:"sourceId"`
	Type     string `json:"type,omitempty"`
	Chain    string `json:"chain,omitempty"`
}

// Receipt is the Merkle inclusion proof attached to a certificate.
type Receipt struct {
	Type       string        `json:"type"`
	TargetHash string        `json:"targetHash"`
	MerkleRoot string        `json:"merkleRoot"`
	Path       []merkle.Step `json:"path,omitempty"`
	Anchors    []Anchor      `json:"anchors"`

	// SignatureValue and VerificationMethod carry the optional issuer
	// signature of version 3 proofs.
	SignatureValue     string `json:"signatureValue,omitempty"`
	VerificationMethod string `json:"verificationMethod,omitempty"`
}

// HasPath reports whether the receipt carries a non-empty Merkle path.
func (r *Receipt) HasPath() bool { return r != nil && len(r.Path) > 0 }

// AnchoredHash returns the hash expected on chain: the Merkle root, or the
// target hash itself when there is no path. A declared root without a path
// is never trusted on its own; it must equal the target hash.
func (r *Receipt) AnchoredHash() string {
	if r == nil {
		return ""
	}
	if r.HasPath() && r.MerkleRoot != "" {
		return r.MerkleRoot
	}
	return r.TargetHash
}

// Proof returns the Merkle proof binding the target hash to the root.
func (r *Receipt) Proof() merkle.Proof {
	return merkle.Proof{
		Leaf:      r.TargetHash,
		Root:      r.MerkleRoot,
		Path:      append([]merkle.Step(nil), r.Path...),
		Algorithm: merkle.AlgorithmFor(r.Type),
	}
}

// rawReceipt mirrors the Chainpoint v2 receipt and the decoded MerkleProof2019
// proofValue, which differ only in field names and anchor encoding.
type rawReceipt struct {
	Type               json.RawMessage     `json:"type"`
	TargetHash         string              `json:"targetHash"`
	MerkleRoot         string              `json:"merkleRoot"`
	Proof              []map[string]string `json:"proof"`
	Path               []map[string]string `json:"path"`
	Anchors            []json.RawMessage   `json:"anchors"`
	SignatureValue     string              `json:"signatureValue"`
	VerificationMethod string              `json:"verificationMethod"`
}

func decodeReceipt(data []byte) (*Receipt, error) {
	var raw rawReceipt
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidReceipt, err)
	}

	r := &Receipt{
		Type:               receiptType(raw.Type),
		TargetHash:         raw.TargetHash,
		MerkleRoot:         raw.MerkleRoot,
		SignatureValue:     raw.SignatureValue,
		VerificationMethod: raw.VerificationMethod,
	}

	entries := raw.Path
	if len(entries) == 0 {
		entries = raw.Proof
	}
	for i, entry := range entries {
		step, err := pathStep(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: path entry %d: %w", ErrInvalidReceipt, i, err)
		}
		r.Path = append(r.Path, step)
	}

	for i, rawAnchor := range raw.Anchors {
		anchor, err := decodeAnchor(rawAnchor)
		if err != nil {
			return nil, fmt.Errorf("%w: anchor %d: %w", ErrInvalidReceipt, i, err)
		}
		r.Anchors = append(r.Anchors, anchor)
	}

	return r, nil
}

// receiptType accepts either a string or a list such as ["MerkleProof2017", "Extension"].
func receiptType(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, t := range list {
			if t != "Extension" {
				return t
			}
		}
	}
	return ""
}

func pathStep(entry map[string]string) (merkle.Step, error) {
	if len(entry) != 1 {
		return merkle.Step{}, fmt.Errorf("expected exactly one of left or right, got %d keys", len(entry))
	}
	for k, v := range entry {
		switch merkle.Direction(strings.ToLower(k)) {
		case merkle.Left:
			return merkle.Step{Hash: v, Direction: merkle.Left}, nil
		case merkle.Right:
			return merkle.Step{Hash: v, Direction: merkle.Right}, nil
		default:
			return merkle.Step{}, fmt.Errorf("unknown direction %q", k)
		}
	}
	return merkle.Step{}, nil
}

// decodeAnchor accepts a Chainpoint anchor object or a BLINK string.
func decodeAnchor(raw json.RawMessage) (Anchor, error) {
	var blink string
	if err := json.Unmarshal(raw, &blink); err == nil {
		chain, txID, ok := ParseBlink(blink)
		if !ok {
			return Anchor{}, fmt.Errorf("unrecognized anchor %q", blink)
		}
		return Anchor{SourceID: txID, Type: chain.Blink, Chain: chain.SignatureValue}, nil
	}

	var a Anchor
	if err := json.Unmarshal(raw, &a); err != nil {
		return Anchor{}, err
	}
	if a.SourceID == "" {
		return Anchor{}, fmt.Errorf("anchor has no sourceId")
	}
	return a, nil
}
