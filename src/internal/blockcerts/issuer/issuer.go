// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package issuer

import (
	"crypto"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/signature"
)

var (
	// ErrInvalidProfile indicates an issuer profile that cannot be decoded.
	ErrInvalidProfile = errors.New("issuer: invalid issuer profile")

	// ErrInvalidRevocationList indicates a revocation list that cannot be decoded.
	ErrInvalidRevocationList = errors.New("issuer: invalid revocation list")

	// ErrUnknownKey indicates that no profile key matches an address or key id.
	ErrUnknownKey = errors.New("issuer: no matching issuer key")

	// ErrKeyNotValid indicates a matching key used outside its validity window.
	ErrKeyNotValid = errors.New("issuer: issuer key not valid at transaction time")

	// ErrNoProfile indicates a certificate without an issuer profile location.
	ErrNoProfile = errors.New("issuer: certificate does not reference an issuer profile")
)

// KoblitzPrefix prefixes bitcoin addresses in v2 profile key ids.
const KoblitzPrefix = "ecdsa-koblitz-pubkey:"

// Key is one issuer key and the window in which it may be used.
//
// Zero times are open bounds.
type Key struct {
	ID        string
	PublicKey string
	Type      string
	Created   time.Time
	Expires   time.Time
	Revoked   time.Time
}

// Address returns the blockchain address this key anchors from.
func (k Key) Address() string {
	addr := strings.TrimPrefix(k.PublicKey, KoblitzPrefix)
	// CAIP-10 account ids: eip155:1:0xabc...
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		addr = addr[i+1:]
	}
	return addr
}

// ValidAt reports whether t falls in [Created, min(Expires, Revoked)).
// A zero t is always valid.
func (k Key) ValidAt(t time.Time) bool {
	if t.IsZero() {
		return true
	}
	if !k.Created.IsZero() && t.Before(k.Created) {
		return false
	}
	if !k.Expires.IsZero() && !t.Before(k.Expires) {
		return false
	}
	if !k.Revoked.IsZero() && !t.Before(k.Revoked) {
		return false
	}
	return true
}

// Decode parses the key material for signature checks.
func (k Key) Decode() (crypto.PublicKey, error) {
	return signature.ParsePublicKey(k.PublicKey, k.Type)
}

// RevokedAssertion is one entry of a revocation list.
type RevokedAssertion struct {
	ID     string
	Reason string
}

// Issuer is a resolved issuer profile.
//
// Revoked is nil when no revocation list was resolved, which the verifier
// treats as "nothing revoked" unless RevocationErr records that a declared
// list could not be loaded.
type Issuer struct {
	ID                string
	Name              string
	Keys              []Key
	RevocationListURL string
	Revoked           []RevokedAssertion
	RevocationErr     error
}

// RevocationReason reports whether id is revoked and why.
func (i *Issuer) RevocationReason(id string) (string, bool) {
	if i == nil || id == "" {
		return "", false
	}
	for _, r := range i.Revoked {
		if r.ID == id {
			return r.Reason, true
		}
	}
	return "", false
}

// KeyForAddress returns the key matching addr that was valid at t.
//
// When a key matches but is outside its window the error wraps
// [ErrKeyNotValid]; when nothing matches it wraps [ErrUnknownKey].
func (i *Issuer) KeyForAddress(addr string, t time.Time) (Key, error) {
	if i == nil {
		return Key{}, ErrUnknownKey
	}
	matched := false
	for _, k := range i.Keys {
		if !SameAddress(k.Address(), addr) {
			continue
		}
		matched = true
		if k.ValidAt(t) {
			return k, nil
		}
	}
	if matched {
		return Key{}, fmt.Errorf("%w: %s at %s", ErrKeyNotValid, addr, t.Format(time.RFC3339))
	}
	return Key{}, fmt.Errorf("%w: %s", ErrUnknownKey, addr)
}

// KeyByID returns the key referenced by a verification method.
//
// Fragment ids ("#key-1") match any key whose id ends with the same fragment.
func (i *Issuer) KeyByID(method string) (Key, error) {
	if i == nil || method == "" {
		return Key{}, ErrUnknownKey
	}
	for _, k := range i.Keys {
		if k.ID == method {
			return k, nil
		}
	}
	if frag := fragment(method); frag != "" {
		for _, k := range i.Keys {
			if fragment(k.ID) == frag {
				return k, nil
			}
		}
	}
	return Key{}, fmt.Errorf("%w: %s", ErrUnknownKey, method)
}

func fragment(id string) string {
	if i := strings.LastIndex(id, "#"); i >= 0 {
		return id[i:]
	}
	return ""
}

// SameAddress compares blockchain addresses.
//
// Ethereum addresses compare case-insensitively (EIP-55 checksums differ only
// in case); anything else, such as base58 bitcoin addresses, must match exactly.
func SameAddress(a, b string) bool {
	a = strings.TrimPrefix(strings.TrimSpace(a), KoblitzPrefix)
	b = strings.TrimPrefix(strings.TrimSpace(b), KoblitzPrefix)
	if a == "" || b == "" {
		return false
	}
	if common.IsHexAddress(a) && common.IsHexAddress(b) {
		return common.HexToAddress(a) == common.HexToAddress(b)
	}
	return a == b
}
