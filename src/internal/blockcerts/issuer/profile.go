// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package issuer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type rawV1Key struct {
	Date string `json:"date"`
	Key  string `json:"key"`
}

type rawKey struct {
	ID      string `json:"id"`
	Created string `json:"created"`
	Expires string `json:"expires"`
	Revoked string `json:"revoked"`
}

type rawMethod struct {
	rawKey
	Type                string `json:"type"`
	PublicKeyMultibase  string `json:"publicKeyMultibase"`
	PublicKeyBase58     string `json:"publicKeyBase58"`
	PublicKeyHex        string `json:"publicKeyHex"`
	PublicKeyPem        string `json:"publicKeyPem"`
	BlockchainAccountID string `json:"blockchainAccountId"`
}

type rawProfile struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	RevocationList     string          `json:"revocationList"`
	PublicKey          json.RawMessage `json:"publicKey"`
	IssuerKeys         []rawV1Key      `json:"issuerKeys"`
	VerificationMethod []rawMethod     `json:"verificationMethod"`
}

// ParseProfile decodes a v1, v2 or v3 issuer profile.
func ParseProfile(data []byte) (*Issuer, error) {
	var raw rawProfile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}

	iss := &Issuer{
		ID:                raw.ID,
		Name:              raw.Name,
		RevocationListURL: raw.RevocationList,
	}

	for _, k := range raw.IssuerKeys {
		created, err := parseTime(k.Date)
		if err != nil {
			return nil, err
		}
		iss.Keys = append(iss.Keys, Key{ID: k.Key, PublicKey: k.Key, Created: created})
	}

	keys, err := publicKeys(raw.PublicKey)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		key, err := k.key()
		if err != nil {
			return nil, err
		}
		key.PublicKey = k.ID
		iss.Keys = append(iss.Keys, key)
	}

	for _, m := range raw.VerificationMethod {
		key, err := m.key()
		if err != nil {
			return nil, err
		}
		key.Type = m.Type
		switch {
		case m.PublicKeyMultibase != "":
			key.PublicKey = m.PublicKeyMultibase
		case m.PublicKeyBase58 != "":
			key.PublicKey = "z" + m.PublicKeyBase58
		case m.PublicKeyHex != "":
			key.PublicKey = m.PublicKeyHex
		case m.PublicKeyPem != "":
			key.PublicKey = m.PublicKeyPem
		case m.BlockchainAccountID != "":
			key.PublicKey = m.BlockchainAccountID
		}
		iss.Keys = append(iss.Keys, key)
	}

	if len(iss.Keys) == 0 {
		return nil, fmt.Errorf("%w: no keys", ErrInvalidProfile)
	}
	return iss, nil
}

// publicKeys accepts "publicKey" as a list of objects, a list of strings or
// a single string.
func publicKeys(data json.RawMessage) ([]rawKey, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		return []rawKey{{ID: single}}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: publicKey: %w", ErrInvalidProfile, err)
	}

	keys := make([]rawKey, 0, len(items))
	for _, item := range items {
		var k rawKey
		if err := json.Unmarshal(item, &k.ID); err == nil {
			keys = append(keys, k)
			continue
		}
		if err := json.Unmarshal(item, &k); err != nil {
			return nil, fmt.Errorf("%w: publicKey: %w", ErrInvalidProfile, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func (k rawKey) key() (Key, error) {
	var (
		out Key
		err error
	)
	out.ID = k.ID
	if out.Created, err = parseTime(k.Created); err != nil {
		return Key{}, err
	}
	if out.Expires, err = parseTime(k.Expires); err != nil {
		return Key{}, err
	}
	if out.Revoked, err = parseTime(k.Revoked); err != nil {
		return Key{}, err
	}
	return out, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: bad date %q", ErrInvalidProfile, s)
}

type rawRevocationList struct {
	RevokedAssertions []struct {
		ID               string `json:"id"`
		RevocationReason string `json:"revocationReason"`
	} `json:"revokedAssertions"`
}

// ParseRevocationList decodes a revocation list.
//
// The result is never nil on success, so an empty list still counts as
// resolved.
func ParseRevocationList(data []byte) ([]RevokedAssertion, error) {
	var raw rawRevocationList
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRevocationList, err)
	}

	out := make([]RevokedAssertion, 0, len(raw.RevokedAssertions))
	for _, r := range raw.RevokedAssertions {
		if r.ID == "" {
			return nil, fmt.Errorf("%w: entry without id", ErrInvalidRevocationList)
		}
		out = append(out, RevokedAssertion{ID: r.ID, Reason: r.RevocationReason})
	}
	return out, nil
}
