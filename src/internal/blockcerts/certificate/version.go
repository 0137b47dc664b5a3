// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package certificate

// Version identifies a Blockcerts schema version.
type Version string

const (
	V1_1       Version = "1.1"
	V1_2       Version = "1.2"
	V2_0       Version = "2.0"
	V3_0_alpha Version = "3.0-alpha"
	V3_0       Version = "3.0"
)

// Valid reports whether v is a known version.
func (v Version) Valid() bool {
	switch v {
	case V1_1, V1_2, V2_0, V3_0_alpha, V3_0:
		return true
	}
	return false
}

// IsV1 reports whether v is one of the 1.x versions.
func (v Version) IsV1() bool { return v == V1_1 || v == V1_2 }

// IsV3 reports whether v uses the MerkleProof2019 signature suite.
func (v Version) IsV3() bool { return v == V3_0_alpha || v == V3_0 }

// ProofField is the top-level document field holding the transient proof,
// which must be removed before the local hash is computed.
func (v Version) ProofField() string {
	switch v {
	case V1_1, V1_2:
		return "receipt"
	case V3_0_alpha, V3_0:
		return "proof"
	default:
		return "signature"
	}
}

func (v Version) String() string { return string(v) }
