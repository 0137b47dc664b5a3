// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package verifier

import (
	"fmt"
	"slices"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/certificate"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/hashutil"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/merkle"
)

// family selects the final messages of a profile.
type family string

const (
	familyLegacy     family = "certificate"
	familyCredential family = "credential"
)

// profile is the per-version entry of the dispatch table: the ordered steps
// and the digest used for the local hash.
type profile struct {
	steps  []StepID
	family family
	// leafAlgorithm picks the digest for the local hash.
	leafAlgorithm func(r *certificate.Receipt) hashutil.Algorithm
}

func sha256Leaf(*certificate.Receipt) hashutil.Algorithm { return hashutil.SHA256 }

func receiptLeaf(r *certificate.Receipt) hashutil.Algorithm {
	if r == nil {
		return hashutil.SHA256
	}
	return merkle.AlgorithmFor(r.Type)
}

var (
	v1_1Profile = profile{
		steps: []StepID{
			ComputeLocalHash,
			FetchRemoteHash,
			CompareRemoteHash,
			CheckIssuerSignature,
			CheckRevokedStatus,
			CheckExpiresDate,
		},
		family:        familyLegacy,
		leafAlgorithm: sha256Leaf,
	}

	v2Profile = profile{
		steps: []StepID{
			ComputeLocalHash,
			CompareHashes,
			CheckMerkleRoot,
			FetchRemoteHash,
			CompareRemoteHash,
			CheckAuthenticity,
			CheckRevokedStatus,
			CheckExpiresDate,
		},
		family:        familyLegacy,
		leafAlgorithm: receiptLeaf,
	}

	v3Profile = profile{
		steps: []StepID{
			ComputeLocalHash,
			CompareHashes,
			CheckMerkleRoot,
			CheckReceipt,
			FetchRemoteHash,
			CompareRemoteHash,
			CheckAuthenticity,
			CheckIssuerSignature,
			CheckRevokedStatus,
			CheckExpiresDate,
		},
		family:        familyCredential,
		leafAlgorithm: receiptLeaf,
	}
)

var profiles = map[certificate.Version]profile{
	certificate.V1_1:       v1_1Profile,
	certificate.V1_2:       v2Profile,
	certificate.V2_0:       v2Profile,
	certificate.V3_0_alpha: v3Profile,
	certificate.V3_0:       v3Profile,
}

// networkSteps are skipped on mock chains.
var networkSteps = []StepID{FetchRemoteHash, CompareRemoteHash, CheckAuthenticity}

func profileFor(version certificate.Version) (profile, error) {
	p, ok := profiles[version]
	if !ok {
		return profile{}, fmt.Errorf("%w: %q", ErrUnsupportedVersion, version)
	}
	return p, nil
}

// ResolveSteps returns the steps that apply to a certificate, in run order.
//
// checkMerkleRoot is dropped only when the receipt has neither a path nor a
// declared root, since an empty path must still reduce the leaf to the root.
// The version 3 checkIssuerSignature only runs when the receipt carries a
// signature, and mock chains skip every step that needs the blockchain.
func ResolveSteps(version certificate.Version, chain certificate.Chain, receipt *certificate.Receipt) ([]StepID, error) {
	p, err := profileFor(version)
	if err != nil {
		return nil, err
	}

	steps := make([]StepID, 0, len(p.steps))
	for _, s := range p.steps {
		switch {
		case s == CheckMerkleRoot && !receipt.HasPath() && (receipt == nil || receipt.MerkleRoot == ""):
			continue
		case s == CheckIssuerSignature && version.IsV3() && (receipt == nil || receipt.SignatureValue == ""):
			continue
		case chain.IsMock() && slices.Contains(networkSteps, s):
			continue
		}
		steps = append(steps, s)
	}
	return steps, nil
}
