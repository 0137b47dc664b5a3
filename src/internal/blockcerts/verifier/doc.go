// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package verifier runs the Blockcerts verification pipeline.
//
// A [Verifier] is built from a parsed certificate and the already resolved
// issuer data, resolves the steps that apply to the certificate version and
// chain, and runs them once in order:
//
//	computeLocalHash → compareHashes → checkMerkleRoot → checkReceipt →
//	fetchRemoteHash → compareRemoteHash → checkAuthenticity →
//	checkIssuerSignature → checkRevokedStatus → checkExpiresDate
//
// Steps are independent checks. A failing step is recorded and the run
// continues, so callers always get a complete audit trail. A step whose
// input was never produced (for example compareRemoteHash after every
// explorer failed) fails immediately with [ErrMissingPrerequisite].
// The only step that aborts the run is computeLocalHash when the document
// cannot be canonicalized.
//
// Example usage:
//
//	v, err := verifier.New(cert, verifier.Options{Issuer: iss})
//	if err != nil {
//		return err
//	}
//	result, err := v.Verify(ctx)
//	if err != nil {
//		return err
//	}
//	fmt.Println(result.Message)
package verifier
