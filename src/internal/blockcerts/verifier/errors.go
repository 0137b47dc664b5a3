// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package verifier

import (
	"errors"
	"fmt"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/canon"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/explorer"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/merkle"
)

// Construction errors.
var (
	// ErrMissingField indicates a certificate without data the pipeline needs.
	ErrMissingField = errors.New("verifier: missing required field")

	// ErrUnsupportedVersion indicates a certificate version with no step profile.
	ErrUnsupportedVersion = errors.New("verifier: unsupported certificate version")

	// ErrInvalidPriority is returned for explorer APIs with a priority other than 0 or 1.
	ErrInvalidPriority = explorer.ErrInvalidPriority

	// ErrAlreadyVerified is returned by a second call to Verify.
	ErrAlreadyVerified = errors.New("verifier: verification already ran")
)

// Step errors. Each matches the [StepError] of the corresponding [Kind].
var (
	ErrCanonicalization    = canon.ErrCanonicalization
	ErrTransactionNotFound = explorer.ErrTransactionNotFound
	ErrMerkleProof         = merkle.ErrProofVerification
	ErrHashMismatch        = errors.New("verifier: hashes do not match")
	ErrSignature           = errors.New("verifier: issuer signature verification failed")
	ErrRevoked             = errors.New("verifier: certificate has been revoked")
	ErrExpired             = errors.New("verifier: certificate has expired")
	ErrMissingPrerequisite = errors.New("verifier: prerequisite data missing")
	ErrAuthenticity        = errors.New("verifier: transaction was not issued by a valid issuer key")
	ErrInvalidReceipt      = errors.New("verifier: invalid receipt")
)

// Kind is a stable category for programmatic handling of step failures.
// Branch on Kind rather than on error strings.
type Kind string

const (
	KindCanonicalization    Kind = "Canonicalization"
	KindTransactionNotFound Kind = "TransactionNotFound"
	KindMerkleProof         Kind = "MerkleProof"
	KindHashMismatch        Kind = "HashMismatch"
	KindSignature           Kind = "Signature"
	KindRevoked             Kind = "Revoked"
	KindExpired             Kind = "Expired"
	KindMissingPrerequisite Kind = "MissingPrerequisite"
	KindAuthenticity        Kind = "Authenticity"
	KindReceipt             Kind = "Receipt"
)

var kindSentinels = map[Kind]error{
	KindCanonicalization:    ErrCanonicalization,
	KindTransactionNotFound: ErrTransactionNotFound,
	KindMerkleProof:         ErrMerkleProof,
	KindHashMismatch:        ErrHashMismatch,
	KindSignature:           ErrSignature,
	KindRevoked:             ErrRevoked,
	KindExpired:             ErrExpired,
	KindMissingPrerequisite: ErrMissingPrerequisite,
	KindAuthenticity:        ErrAuthenticity,
	KindReceipt:             ErrInvalidReceipt,
}

// StepError is the structured failure of one step.
//
// errors.Is matches both the sentinel of its Kind and anything Err wraps.
type StepError struct {
	Step StepID
	Kind Kind
	Err  error
}

func (e *StepError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Step, kindSentinels[e.Kind])
	}
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is the sentinel of e.Kind.
func (e *StepError) Is(target error) bool {
	if e == nil {
		return false
	}
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

func stepError(step StepID, kind Kind, err error) *StepError {
	return &StepError{Step: step, Kind: kind, Err: err}
}

func missing(step StepID, what string) *StepError {
	return stepError(step, KindMissingPrerequisite, fmt.Errorf("%w: %s", ErrMissingPrerequisite, what))
}

// IsKind reports whether err is (or wraps) a *StepError of the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *StepError
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
