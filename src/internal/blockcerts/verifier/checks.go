// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package verifier

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/certificate"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/explorer"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/hashutil"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/merkle"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/signature"
)

type check func(v *Verifier, ctx context.Context) error

var checks = map[StepID]check{
	ComputeLocalHash:     (*Verifier).computeLocalHash,
	CompareHashes:        (*Verifier).compareHashes,
	CheckMerkleRoot:      (*Verifier).checkMerkleRoot,
	CheckReceipt:         (*Verifier).checkReceipt,
	FetchRemoteHash:      (*Verifier).fetchRemoteHash,
	CompareRemoteHash:    (*Verifier).compareRemoteHash,
	CheckIssuerSignature: (*Verifier).checkIssuerSignature,
	CheckAuthenticity:    (*Verifier).checkAuthenticity,
	CheckRevokedStatus:   (*Verifier).checkRevokedStatus,
	CheckExpiresDate:     (*Verifier).checkExpiresDate,
}

func (v *Verifier) computeLocalHash(context.Context) error {
	data, err := v.canonicalizer.Canonicalize(v.cert.Document)
	if err != nil {
		if !errors.Is(err, ErrCanonicalization) {
			err = fmt.Errorf("%w: %w", ErrCanonicalization, err)
		}
		return stepError(ComputeLocalHash, KindCanonicalization, err)
	}

	sum, err := hashutil.Sum(v.profile.leafAlgorithm(v.cert.Receipt), data)
	if err != nil {
		return stepError(ComputeLocalHash, KindCanonicalization, fmt.Errorf("%w: %w", ErrCanonicalization, err))
	}
	v.localHash = hex.EncodeToString(sum)
	return nil
}

func (v *Verifier) compareHashes(context.Context) error {
	if v.localHash == "" {
		return missing(CompareHashes, "local hash")
	}
	target := v.cert.Receipt.TargetHash
	if !hashutil.Equal(v.localHash, target) {
		return stepError(CompareHashes, KindHashMismatch,
			fmt.Errorf("%w: local %s, target %s", ErrHashMismatch, v.localHash, hashutil.Normalize(target)))
	}
	return nil
}

func (v *Verifier) checkMerkleRoot(context.Context) error {
	if err := v.cert.Receipt.Proof().Verify(); err != nil {
		return stepError(CheckMerkleRoot, KindMerkleProof, err)
	}
	return nil
}

func (v *Verifier) checkReceipt(context.Context) error {
	if err := ValidateReceipt(v.cert.Receipt); err != nil {
		return stepError(CheckReceipt, KindReceipt, err)
	}
	return nil
}

// ValidateReceipt checks the structure of a receipt: at least one anchor,
// hashes that are hex digests of the receipt algorithm, and path entries
// with a valid direction.
func ValidateReceipt(r *certificate.Receipt) error {
	if r == nil {
		return fmt.Errorf("%w: no receipt", ErrInvalidReceipt)
	}
	if len(r.Anchors) == 0 {
		return fmt.Errorf("%w: no anchors", ErrInvalidReceipt)
	}

	alg := merkle.AlgorithmFor(r.Type)
	size := hashutil.Size(alg)
	digest := func(name, h string) error {
		b, err := hashutil.Decode(h)
		if err != nil || len(b) != size {
			return fmt.Errorf("%w: %s is not a %s digest", ErrInvalidReceipt, name, alg)
		}
		return nil
	}

	if err := digest("targetHash", r.TargetHash); err != nil {
		return err
	}
	if r.MerkleRoot != "" {
		if err := digest("merkleRoot", r.MerkleRoot); err != nil {
			return err
		}
	}
	for i, s := range r.Path {
		if err := digest(fmt.Sprintf("path[%d]", i), s.Hash); err != nil {
			return err
		}
		if s.Direction != merkle.Left && s.Direction != merkle.Right {
			return fmt.Errorf("%w: path[%d] has direction %q", ErrInvalidReceipt, i, s.Direction)
		}
	}
	return nil
}

func (v *Verifier) fetchRemoteHash(ctx context.Context) error {
	tx, err := explorer.Lookup(ctx, v.cert.TransactionID, v.cert.Chain, v.explorers)
	if err != nil {
		var notFound *explorer.TransactionNotFoundError
		if errors.As(err, &notFound) {
			for _, f := range notFound.Failures {
				v.logger.Printf("[%s] explorer %s: %v", v.runID, f.Explorer, f.Err)
			}
		}
		return stepError(FetchRemoteHash, KindTransactionNotFound, err)
	}
	v.tx = tx
	return nil
}

// expectedRemoteHash is what the transaction must carry: the local hash for
// version 1.1, which anchors documents directly, and the receipt's anchored
// hash otherwise.
func (v *Verifier) expectedRemoteHash() string {
	if v.cert.Version == certificate.V1_1 {
		return v.localHash
	}
	return v.cert.Receipt.AnchoredHash()
}

func (v *Verifier) compareRemoteHash(context.Context) error {
	if v.tx == nil {
		return missing(CompareRemoteHash, "transaction data")
	}
	expected := v.expectedRemoteHash()
	if expected == "" {
		return missing(CompareRemoteHash, "anchored hash")
	}
	if !hashutil.Equal(expected, v.tx.RemoteHash()) {
		return stepError(CompareRemoteHash, KindHashMismatch,
			fmt.Errorf("%w: expected %s, transaction carries %s", ErrHashMismatch, hashutil.Normalize(expected), v.tx.RemoteHash()))
	}
	return nil
}

func (v *Verifier) checkIssuerSignature(context.Context) error {
	if v.issuer == nil {
		return missing(CheckIssuerSignature, "issuer profile")
	}
	if v.cert.Version.IsV3() {
		return v.checkProofSignature()
	}
	return v.checkSignedMessage()
}

// checkSignedMessage verifies the version 1.1 Bitcoin signed message over the
// certificate id against every issuer key usable at transaction time.
func (v *Verifier) checkSignedMessage() error {
	sig := v.cert.IssuerSignature
	if sig == "" {
		return stepError(CheckIssuerSignature, KindSignature, fmt.Errorf("%w: certificate carries no signature", ErrSignature))
	}

	params := signature.NetworkParams(v.cert.Chain)
	var lastErr error = fmt.Errorf("%w: no usable issuer key", ErrSignature)
	for _, k := range v.issuer.Keys {
		if v.tx != nil && !k.ValidAt(v.tx.Time()) {
			continue
		}
		err := signature.VerifyBitcoinMessage(k.Address(), v.cert.ID, sig, params)
		if err == nil {
			return nil
		}
		lastErr = fmt.Errorf("%w: %w", ErrSignature, err)
	}
	return stepError(CheckIssuerSignature, KindSignature, lastErr)
}

// checkProofSignature verifies the version 3 proof signature over the target
// hash with the key named by the proof's verification method.
func (v *Verifier) checkProofSignature() error {
	r := v.cert.Receipt
	fail := func(err error) error {
		return stepError(CheckIssuerSignature, KindSignature, fmt.Errorf("%w: %w", ErrSignature, err))
	}

	key, err := v.issuer.KeyByID(r.VerificationMethod)
	if err != nil {
		return fail(err)
	}
	pub, err := key.Decode()
	if err != nil {
		return fail(err)
	}
	sig, err := signature.DecodeSignature(r.SignatureValue)
	if err != nil {
		return fail(err)
	}
	payload, err := hashutil.Decode(r.TargetHash)
	if err != nil {
		return fail(err)
	}
	if err := signature.Verify(pub, payload, sig); err != nil {
		return fail(err)
	}
	return nil
}

func (v *Verifier) checkAuthenticity(context.Context) error {
	if v.tx == nil {
		return missing(CheckAuthenticity, "transaction data")
	}
	if v.issuer == nil {
		return missing(CheckAuthenticity, "issuer profile")
	}
	if _, err := v.issuer.KeyForAddress(v.tx.IssuingAddress(), v.tx.Time()); err != nil {
		return stepError(CheckAuthenticity, KindAuthenticity, fmt.Errorf("%w: %w", ErrAuthenticity, err))
	}
	return nil
}

func (v *Verifier) checkRevokedStatus(context.Context) error {
	if v.issuer != nil && v.issuer.RevocationErr != nil {
		return stepError(CheckRevokedStatus, KindMissingPrerequisite,
			fmt.Errorf("%w: revocation list %s: %w", ErrMissingPrerequisite, v.issuer.RevocationListURL, v.issuer.RevocationErr))
	}

	key := v.cert.RevocationKey
	if key == "" {
		key = v.cert.ID
	}
	ids := []string{key}
	if v.cert.ID != "" && v.cert.ID != key {
		ids = append(ids, v.cert.ID)
	}

	for _, id := range ids {
		if reason, revoked := v.issuer.RevocationReason(id); revoked {
			if reason == "" {
				return stepError(CheckRevokedStatus, KindRevoked, fmt.Errorf("%w: %s", ErrRevoked, id))
			}
			return stepError(CheckRevokedStatus, KindRevoked, fmt.Errorf("%w: %s: %s", ErrRevoked, id, reason))
		}
	}
	if v.tx != nil && v.tx.IsRevoked(key) {
		return stepError(CheckRevokedStatus, KindRevoked, fmt.Errorf("%w: revocation address %s was spent", ErrRevoked, key))
	}
	return nil
}

var expiryLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02"}

// ParseExpires parses an expiry date.
func ParseExpires(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable expiry date %q", ErrExpired, s)
}

func (v *Verifier) checkExpiresDate(context.Context) error {
	if strings.TrimSpace(v.cert.Expires) == "" {
		return nil
	}
	expires, err := ParseExpires(v.cert.Expires)
	if err != nil {
		return stepError(CheckExpiresDate, KindExpired, err)
	}
	if !v.now().Before(expires) {
		return stepError(CheckExpiresDate, KindExpired,
			fmt.Errorf("%w: on %s", ErrExpired, expires.UTC().Format(time.RFC3339)))
	}
	return nil
}
