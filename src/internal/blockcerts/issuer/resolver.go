// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package issuer

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/certificate"
)

// Getter fetches a document over the network.
// [explorer.HTTPConfig] satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Resolver fetches issuer profiles and revocation lists.
//
// Locations starting with http:// or https:// go through the Getter and
// the cache; anything else is read from the local filesystem (an optional
// file:// prefix is stripped).
type Resolver struct {
	getter Getter
	cache  *Cache
}

// NewResolver creates a resolver. A nil cache disables caching.
func NewResolver(getter Getter, cache *Cache) *Resolver {
	return &Resolver{getter: getter, cache: cache}
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func (r *Resolver) fetch(ctx context.Context, location string) ([]byte, error) {
	if !isRemote(location) {
		return os.ReadFile(strings.TrimPrefix(location, "file://"))
	}

	if r.cache != nil {
		if data, ok := r.cache.Get(location); ok {
			return data, nil
		}
	}
	if r.getter == nil {
		return nil, fmt.Errorf("issuer: no HTTP getter configured for %s", location)
	}

	data, err := r.getter.Get(ctx, location)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.Set(location, data)
	}
	return data, nil
}

// Profile fetches and parses an issuer profile.
func (r *Resolver) Profile(ctx context.Context, location string) (*Issuer, error) {
	data, err := r.fetch(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("issuer: fetch profile %s: %w", location, err)
	}
	return ParseProfile(data)
}

// RevocationList fetches and parses a revocation list.
func (r *Resolver) RevocationList(ctx context.Context, location string) ([]RevokedAssertion, error) {
	data, err := r.fetch(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("issuer: fetch revocation list %s: %w", location, err)
	}
	return ParseRevocationList(data)
}

// Resolve fetches the issuer profile a certificate points at, then its
// revocation list. The certificate's own revocation list location wins
// over the profile's. A list that cannot be loaded does not fail the
// profile; it is recorded in [Issuer.RevocationErr].
func (r *Resolver) Resolve(ctx context.Context, cert *certificate.Certificate) (*Issuer, error) {
	if cert == nil || cert.IssuerProfileURL == "" {
		return nil, ErrNoProfile
	}

	iss, err := r.Profile(ctx, cert.IssuerProfileURL)
	if err != nil {
		return nil, err
	}

	listURL := cert.RevocationListURL
	if listURL == "" {
		listURL = iss.RevocationListURL
	}
	r.LoadRevocations(ctx, iss, listURL)
	return iss, nil
}

// LoadRevocations fetches the revocation list at location into iss.
// An empty location leaves iss without a list. On failure Revoked stays nil
// and RevocationErr holds the cause.
func (r *Resolver) LoadRevocations(ctx context.Context, iss *Issuer, location string) {
	if iss == nil || location == "" {
		return
	}
	iss.RevocationListURL = location

	revoked, err := r.RevocationList(ctx, location)
	if err != nil {
		iss.Revoked = nil
		iss.RevocationErr = err
		return
	}
	iss.Revoked = revoked
	iss.RevocationErr = nil
}
