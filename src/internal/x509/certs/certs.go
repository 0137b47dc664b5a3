// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"

	"github.com/cloudflare/cfssl/crypto/pkcs7"
)

var (
	// ErrInvalidPEMBlock indicates that the provided data does not contain a valid PEM block.
	ErrInvalidPEMBlock = errors.New("x509certs: invalid PEM block")

	// ErrInvalidBlockType indicates that the PEM block type is neither a certificate nor a public key.
	ErrInvalidBlockType = errors.New("x509certs: invalid block type")

	// ErrParseCertificate indicates a failure to parse the certificate from the provided data.
	ErrParseCertificate = errors.New("x509certs: failed to parse certificate")

	// ErrParsePKCS7 indicates a failure to parse PKCS7 formatted data.
	ErrParsePKCS7 = errors.New("x509certs: failed to parse PKCS7 data")

	// ErrNoCertificatesInPKCS indicates that no certificates were found in the PKCS7 data.
	ErrNoCertificatesInPKCS = errors.New("x509certs: no certificates found in PKCS7 data")

	// ErrParsePublicKey indicates that the data holds no usable public key.
	ErrParsePublicKey = errors.New("x509certs: failed to parse public key")
)

// PEM block types accepted by [Certificate].
const (
	BlockCertificate = "CERTIFICATE"
	BlockPublicKey   = "PUBLIC KEY"
)

// Certificate decodes issuer key material.
type Certificate struct {
	certBlockType string
	keyBlockType  string
}

// New creates a new Certificate with default settings.
func New() *Certificate {
	return &Certificate{
		certBlockType: BlockCertificate,
		keyBlockType:  BlockPublicKey,
	}
}

// IsPEM checks if the data is in PEM format.
func (c *Certificate) IsPEM(data []byte) bool {
	block, _ := pem.Decode(data)
	return block != nil
}

// Decode decodes a single certificate from PEM, DER or a PKCS7 bundle.
// For bundles the first certificate is returned.
func (c *Certificate) Decode(data []byte) (*x509.Certificate, error) {
	if c.IsPEM(data) {
		block, _ := pem.Decode(data)
		if block.Type != c.certBlockType {
			return nil, ErrInvalidBlockType
		}
		data = block.Bytes
	}

	cert, err := x509.ParseCertificate(data)
	if err == nil {
		return cert, nil
	}

	p, err := pkcs7.ParsePKCS7(data)
	if err != nil {
		return nil, ErrParsePKCS7
	}
	if len(p.Content.SignedData.Certificates) == 0 {
		return nil, ErrNoCertificatesInPKCS
	}

	return p.Content.SignedData.Certificates[0], nil
}

// DecodeMultiple decodes every certificate in a PEM bundle or concatenated DER.
func (c *Certificate) DecodeMultiple(data []byte) ([]*x509.Certificate, error) {
	if !c.IsPEM(data) {
		certs, err := x509.ParseCertificates(data)
		if err != nil {
			return nil, ErrParseCertificate
		}
		return certs, nil
	}

	var certs []*x509.Certificate
	for len(data) > 0 {
		block, rest := pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != c.certBlockType {
			return nil, ErrInvalidBlockType
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, ErrParseCertificate
		}

		certs = append(certs, cert)
		data = rest
	}

	return certs, nil
}

// DecodePublicKey extracts a public key from a PEM "PUBLIC KEY" block, a
// certificate (PEM, DER or PKCS7), or a DER encoded PKIX key.
//
// Parameters:
//   - data: Encoded key material
//
// Returns:
//   - crypto.PublicKey: The decoded key (*ecdsa.PublicKey, ed25519.PublicKey, *rsa.PublicKey)
//   - error: [ErrInvalidBlockType] or [ErrParsePublicKey]
func (c *Certificate) DecodePublicKey(data []byte) (crypto.PublicKey, error) {
	if block, _ := pem.Decode(data); block != nil {
		switch block.Type {
		case c.keyBlockType:
			key, err := x509.ParsePKIXPublicKey(block.Bytes)
			if err != nil {
				return nil, ErrParsePublicKey
			}
			return key, nil
		case c.certBlockType:
			cert, err := c.Decode(data)
			if err != nil {
				return nil, err
			}
			return cert.PublicKey, nil
		default:
			return nil, ErrInvalidBlockType
		}
	}

	if key, err := x509.ParsePKIXPublicKey(data); err == nil {
		return key, nil
	}
	cert, err := c.Decode(data)
	if err != nil {
		return nil, ErrParsePublicKey
	}
	return cert.PublicKey, nil
}

// EncodePEM encodes a certificate to PEM format.
func (c *Certificate) EncodePEM(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: c.certBlockType, Bytes: cert.Raw})
}

// EncodePublicKeyPEM encodes a public key as a PEM "PUBLIC KEY" block.
func (c *Certificate) EncodePublicKeyPEM(key crypto.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: c.keyBlockType, Bytes: der}), nil
}
