// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package explorer

import (
	"slices"
	"time"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/hashutil"
)

// TransactionData is the normalized view of an anchoring transaction.
// Values are immutable once built by [NewTransactionData].
type TransactionData struct {
	remoteHash       string
	issuingAddress   string
	time             time.Time
	revokedAddresses []string
}

// NewTransactionData builds a TransactionData. The remote hash is normalized
// to lowercase hex without a 0x prefix and the revoked addresses are copied.
func NewTransactionData(remoteHash, issuingAddress string, t time.Time, revokedAddresses []string) *TransactionData {
	return &TransactionData{
		remoteHash:       hashutil.Normalize(remoteHash),
		issuingAddress:   issuingAddress,
		time:             t.UTC(),
		revokedAddresses: slices.Clone(revokedAddresses),
	}
}

// RemoteHash returns the hash recorded on chain.
func (t *TransactionData) RemoteHash() string { return t.remoteHash }

// IssuingAddress returns the address that signed the transaction.
func (t *TransactionData) IssuingAddress() string { return t.issuingAddress }

// Time returns the block time of the transaction.
func (t *TransactionData) Time() time.Time { return t.time }

// RevokedAddresses returns a copy of the addresses the issuer revoked by spending outputs.
func (t *TransactionData) RevokedAddresses() []string { return slices.Clone(t.revokedAddresses) }

// IsRevoked reports whether address appears among the revoked addresses.
func (t *TransactionData) IsRevoked(address string) bool {
	return address != "" && slices.Contains(t.revokedAddresses, address)
}
