// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package signature

import (
	"crypto"
	stdecdsa "crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/mr-tron/base58"

	x509certs "github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/x509/certs"
)

var (
	// ErrInvalidSignature indicates signature bytes that cannot be decoded.
	ErrInvalidSignature = errors.New("signature: invalid signature encoding")

	// ErrSignatureMismatch indicates a well formed signature that does not verify.
	ErrSignatureMismatch = errors.New("signature: signature does not verify")

	// ErrInvalidKey indicates key material that cannot be decoded.
	ErrInvalidKey = errors.New("signature: invalid public key")

	// ErrUnsupportedKey indicates a key type this package cannot verify with.
	ErrUnsupportedKey = errors.New("signature: unsupported public key type")
)

// Key type names used in issuer profiles.
const (
	TypeSecp256k1 = "EcdsaSecp256k1VerificationKey2019"
	TypeEd25519   = "Ed25519VerificationKey2020"
)

var decoder = x509certs.New()

// ParsePublicKey decodes an issuer public key.
//
// Accepted encodings: PEM (public key or certificate), multibase base58btc
// ("z..."), hex secp256k1 points, and base64 DER (PKIX key, certificate or
// PKCS7 bundle). keyType disambiguates 32 byte multibase keys, which are
// ed25519 unless a secp256k1 type is given.
func ParsePublicKey(encoded, keyType string) (crypto.PublicKey, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, ErrInvalidKey
	}

	if strings.HasPrefix(encoded, "-----BEGIN") {
		key, err := decoder.DecodePublicKey([]byte(encoded))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		return key, nil
	}

	if strings.HasPrefix(encoded, "z") {
		raw, err := base58.Decode(encoded[1:])
		if err == nil {
			return rawKey(raw, keyType)
		}
	}

	if raw, err := hex.DecodeString(strings.TrimPrefix(encoded, "0x")); err == nil {
		return rawKey(raw, keyType)
	}

	if raw, err := base64.StdEncoding.DecodeString(encoded); err == nil {
		key, err := decoder.DecodePublicKey(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		return key, nil
	}

	return nil, ErrInvalidKey
}

func rawKey(raw []byte, keyType string) (crypto.PublicKey, error) {
	isSecp := strings.Contains(strings.ToLower(keyType), "secp256k1")
	switch {
	case len(raw) == ed25519.PublicKeySize && !isSecp:
		return ed25519.PublicKey(raw), nil
	case len(raw) == btcec.PubKeyBytesLenCompressed, len(raw) == secp256k1.PubKeyBytesLenUncompressed:
		key, err := btcec.ParsePubKey(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("%w: %d byte key", ErrInvalidKey, len(raw))
	}
}

// DecodeSignature decodes hex, multibase base58btc or base64 signature text.
func DecodeSignature(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidSignature
	}
	if raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x")); err == nil {
		return raw, nil
	}
	if strings.HasPrefix(s, "z") {
		if raw, err := base58.Decode(s[1:]); err == nil {
			return raw, nil
		}
	}
	if raw, err := base64.StdEncoding.DecodeString(s); err == nil {
		return raw, nil
	}
	if raw, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return raw, nil
	}
	return nil, ErrInvalidSignature
}

// Verify checks sig over payload with pub.
//
// Ed25519 signs payload directly. secp256k1 (DER), ECDSA (ASN.1) and RSA
// (PKCS #1 v1.5) sign its SHA-256 digest. Certificates are verified with
// their subject key.
func Verify(pub crypto.PublicKey, payload, sig []byte) error {
	digest := sha256.Sum256(payload)

	var ok bool
	switch key := pub.(type) {
	case ed25519.PublicKey:
		ok = len(key) == ed25519.PublicKeySize && ed25519.Verify(key, payload, sig)
	case *btcec.PublicKey:
		parsed, err := ecdsa.ParseDERSignature(sig)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
		}
		ok = parsed.Verify(digest[:], key)
	case *stdecdsa.PublicKey:
		ok = stdecdsa.VerifyASN1(key, digest[:], sig)
	case *rsa.PublicKey:
		ok = rsa.VerifyPKCS1v15(key, crypto.SHA256, digest[:], sig) == nil
	case *x509.Certificate:
		return Verify(key.PublicKey, payload, sig)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedKey, pub)
	}

	if !ok {
		return ErrSignatureMismatch
	}
	return nil
}
