// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package signature

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/certificate"
)

// BitcoinMessageMagic prefixes every Bitcoin signed message before hashing.
const BitcoinMessageMagic = "Bitcoin Signed Message:\n"

// compactSignatureSize is the size of a recoverable compact signature.
const compactSignatureSize = 65

// NetworkParams returns the Bitcoin address parameters for chain.
func NetworkParams(chain certificate.Chain) *chaincfg.Params {
	switch chain.Code {
	case certificate.BitcoinTestnet.Code:
		return &chaincfg.TestNet3Params
	case certificate.BitcoinRegtest.Code, certificate.Mocknet.Code:
		return &chaincfg.RegressionNetParams
	default:
		return &chaincfg.MainNetParams
	}
}

// BitcoinMessageHash returns the double SHA-256 of the magic prefixed message.
func BitcoinMessageHash(message string) ([]byte, error) {
	var buf bytes.Buffer
	if err := wire.WriteVarString(&buf, 0, BitcoinMessageMagic); err != nil {
		return nil, err
	}
	if err := wire.WriteVarString(&buf, 0, message); err != nil {
		return nil, err
	}
	return chainhash.DoubleHashB(buf.Bytes()), nil
}

// AddressFromPublicKey returns the P2PKH address of pub.
func AddressFromPublicKey(pub *btcec.PublicKey, compressed bool, params *chaincfg.Params) (string, error) {
	serialized := pub.SerializeUncompressed()
	if compressed {
		serialized = pub.SerializeCompressed()
	}
	addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(serialized), params)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

// RecoverBitcoinMessageAddress returns the address that produced a base64
// compact signature over message.
func RecoverBitcoinMessageAddress(message, sigBase64 string, params *chaincfg.Params) (string, error) {
	sig, err := base64.StdEncoding.DecodeString(sigBase64)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	if len(sig) != compactSignatureSize {
		return "", fmt.Errorf("%w: compact signature has %d bytes", ErrInvalidSignature, len(sig))
	}

	hash, err := BitcoinMessageHash(message)
	if err != nil {
		return "", err
	}
	pub, compressed, err := ecdsa.RecoverCompact(sig, hash)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	return AddressFromPublicKey(pub, compressed, params)
}

// VerifyBitcoinMessage checks that sigBase64 is a signature of message by address.
func VerifyBitcoinMessage(address, message, sigBase64 string, params *chaincfg.Params) error {
	recovered, err := RecoverBitcoinMessageAddress(message, sigBase64, params)
	if err != nil {
		return err
	}
	if recovered != address {
		return fmt.Errorf("%w: signed by %s, expected %s", ErrSignatureMismatch, recovered, address)
	}
	return nil
}

// SignBitcoinMessage produces a base64 compact signature of message.
func SignBitcoinMessage(key *btcec.PrivateKey, message string, compressed bool) (string, error) {
	hash, err := BitcoinMessageHash(message)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ecdsa.SignCompact(key, hash, compressed)), nil
}
