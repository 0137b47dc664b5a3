// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package certificate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/mr-tron/base58"
)

var (
	// ErrInvalidDocument indicates that the input is not a JSON object.
	ErrInvalidDocument = errors.New("certificate: document is not a JSON object")

	// ErrUnknownVersion indicates that no supported Blockcerts version matches the document.
	ErrUnknownVersion = errors.New("certificate: unknown certificate version")

	// ErrSchemaViolation indicates that the document does not have the shape of its version.
	ErrSchemaViolation = errors.New("certificate: schema violation")

	// ErrInvalidReceipt indicates a receipt that cannot be decoded.
	ErrInvalidReceipt = errors.New("certificate: invalid receipt")

	// ErrInvalidProofValue indicates a MerkleProof2019 proofValue that is not multibase base58btc.
	ErrInvalidProofValue = errors.New("certificate: invalid proofValue")

	// ErrMissingAnchor indicates a receipt without any usable anchor.
	ErrMissingAnchor = errors.New("certificate: receipt has no anchor")

	// ErrUnknownChain indicates an anchor on a chain the verifier does not know.
	ErrUnknownChain = errors.New("certificate: unknown chain")
)

// multibaseBase58BTC is the multibase prefix of base58btc encoded values.
const multibaseBase58BTC = "z"

// Certificate is a parsed Blockcerts credential.
type Certificate struct {
	Version Version
	Chain   Chain
	Receipt *Receipt

	// Document is the credential with the transient proof removed; its
	// canonical form is what the receipt's target hash commits to.
	Document map[string]any

	ID            string
	TransactionID string
	Expires       string
	RevocationKey string

	// IssuerSignature is the version 1.1 Bitcoin signed message over ID.
	IssuerSignature string

	IssuerProfileURL  string
	RevocationListURL string

	Name              string
	IssuedOn          string
	MetadataJSON      string
	RecipientFullName string
	RecordLink        string
}

// TransactionLink returns a block explorer link to the anchoring transaction.
func (c *Certificate) TransactionLink() string {
	return c.Chain.TransactionLink(c.TransactionID)
}

// RawTransactionLink returns a link to the raw anchoring transaction.
func (c *Certificate) RawTransactionLink() string {
	return c.Chain.RawTransactionLink(c.TransactionID)
}

// Parse decodes a Blockcerts certificate.
//
// Parameters:
//   - data: Raw JSON of the certificate
//
// Returns:
//   - *Certificate: Parsed certificate with its document ready for hashing
//   - error: [ErrInvalidDocument], [ErrUnknownVersion], [ErrSchemaViolation]
//     or one of the receipt errors
func Parse(data []byte) (*Certificate, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if doc == nil {
		return nil, ErrInvalidDocument
	}

	version, err := DetectVersion(doc)
	if err != nil {
		return nil, err
	}
	if err := validateShape(version, doc); err != nil {
		return nil, err
	}

	var cert *Certificate
	switch version {
	case V1_1:
		cert, err = parseV1_1(doc)
	case V1_2:
		cert, err = parseV1_2(doc)
	case V2_0:
		cert, err = parseV2(doc)
	default:
		cert, err = parseV3(doc)
	}
	if err != nil {
		return nil, err
	}
	cert.Version = version

	if err := cert.bindAnchor(); err != nil {
		return nil, err
	}
	return cert, nil
}

// DetectVersion infers the Blockcerts version of a decoded certificate.
func DetectVersion(doc map[string]any) (Version, error) {
	contexts := contextURLs(doc["@context"])

	if proof, ok := doc["proof"].(map[string]any); ok {
		if t, _ := proof["type"].(string); strings.Contains(t, "MerkleProof2019") {
			if containsAny(contexts, "3.0-alpha", "v3.0-alpha") {
				return V3_0_alpha, nil
			}
			return V3_0, nil
		}
	}
	if _, ok := doc["signature"].(map[string]any); ok {
		return V2_0, nil
	}
	if _, ok := doc["document"].(map[string]any); ok {
		if _, ok := doc["receipt"].(map[string]any); ok {
			return V1_2, nil
		}
	}
	if _, ok := doc["receipt"].(map[string]any); ok {
		if _, ok := doc["certificate"].(map[string]any); ok {
			return V1_1, nil
		}
	}
	return "", ErrUnknownVersion
}

func parseV1_1(doc map[string]any) (*Certificate, error) {
	receipt, err := receiptFrom(doc["receipt"])
	if err != nil {
		return nil, err
	}
	return &Certificate{
		Receipt:           receipt,
		Document:          without(doc, V1_1.ProofField()),
		ID:                str(doc, "assertion", "uid"),
		Expires:           str(doc, "assertion", "expires"),
		RevocationKey:     str(doc, "recipient", "revocationKey"),
		IssuerSignature:   str(doc, "signature"),
		IssuerProfileURL:  str(doc, "certificate", "issuer", "id"),
		RevocationListURL: str(doc, "certificate", "issuer", "revocationList"),
		Name:              str(doc, "certificate", "name"),
		IssuedOn:          str(doc, "assertion", "issuedOn"),
		RecipientFullName: fullName(doc, "recipient"),
		RecordLink:        str(doc, "assertion", "id"),
	}, nil
}

func parseV1_2(doc map[string]any) (*Certificate, error) {
	receipt, err := receiptFrom(doc["receipt"])
	if err != nil {
		return nil, err
	}
	document, _ := doc["document"].(map[string]any)
	return &Certificate{
		Receipt:           receipt,
		Document:          maps.Clone(document),
		ID:                str(document, "assertion", "uid"),
		Expires:           str(document, "assertion", "expires"),
		RevocationKey:     str(document, "recipient", "revocationKey"),
		IssuerProfileURL:  str(document, "certificate", "issuer", "id"),
		RevocationListURL: str(document, "certificate", "issuer", "revocationList"),
		Name:              str(document, "certificate", "name"),
		IssuedOn:          str(document, "assertion", "issuedOn"),
		MetadataJSON:      str(document, "assertion", "metadataJson"),
		RecipientFullName: fullName(document, "recipient"),
		RecordLink:        str(document, "assertion", "id"),
	}, nil
}

func parseV2(doc map[string]any) (*Certificate, error) {
	receipt, err := receiptFrom(doc["signature"])
	if err != nil {
		return nil, err
	}
	return &Certificate{
		Receipt:           receipt,
		Document:          without(doc, V2_0.ProofField()),
		ID:                str(doc, "id"),
		Expires:           str(doc, "expires"),
		IssuerProfileURL:  str(doc, "badge", "issuer", "id"),
		RevocationListURL: str(doc, "badge", "issuer", "revocationList"),
		Name:              str(doc, "badge", "name"),
		IssuedOn:          str(doc, "issuedOn"),
		MetadataJSON:      str(doc, "metadataJson"),
		RecipientFullName: str(doc, "recipientProfile", "name"),
		RecordLink:        str(doc, "id"),
	}, nil
}

func parseV3(doc map[string]any) (*Certificate, error) {
	proof, _ := doc["proof"].(map[string]any)
	receipt, err := decodeProofValue(str(proof, "proofValue"))
	if err != nil {
		return nil, err
	}
	if sig := str(proof, "signatureValue"); sig != "" {
		receipt.SignatureValue = sig
	}
	if vm := str(proof, "verificationMethod"); vm != "" {
		receipt.VerificationMethod = vm
	}

	issuer := str(doc, "issuer")
	if issuer == "" {
		issuer = str(doc, "issuer", "id")
	}
	metadata := str(doc, "metadata")
	if metadata == "" {
		metadata = str(doc, "metadataJson")
	}

	return &Certificate{
		Receipt:           receipt,
		Document:          without(doc, V3_0.ProofField()),
		ID:                str(doc, "id"),
		Expires:           str(doc, "expirationDate"),
		IssuerProfileURL:  issuer,
		RevocationListURL: str(doc, "credentialStatus", "id"),
		Name:              str(doc, "name"),
		IssuedOn:          str(doc, "issuanceDate"),
		MetadataJSON:      metadata,
		RecipientFullName: str(doc, "credentialSubject", "name"),
		RecordLink:        str(doc, "id"),
	}, nil
}

// decodeProofValue reads a MerkleProof2019 proofValue: multibase base58btc of a JSON receipt.
func decodeProofValue(value string) (*Receipt, error) {
	if !strings.HasPrefix(value, multibaseBase58BTC) {
		return nil, fmt.Errorf("%w: missing multibase prefix %q", ErrInvalidProofValue, multibaseBase58BTC)
	}
	raw, err := base58.Decode(strings.TrimPrefix(value, multibaseBase58BTC))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProofValue, err)
	}
	return decodeReceipt(raw)
}

// EncodeProofValue is the inverse of the proofValue decoding used by [Parse].
func EncodeProofValue(r *Receipt) (string, error) {
	raw := map[string]any{
		"type":       r.Type,
		"targetHash": r.TargetHash,
		"merkleRoot": r.MerkleRoot,
	}
	path := make([]map[string]string, 0, len(r.Path))
	for _, step := range r.Path {
		path = append(path, map[string]string{string(step.Direction): step.Hash})
	}
	raw["path"] = path

	anchors := make([]any, 0, len(r.Anchors))
	for _, a := range r.Anchors {
		if chain, ok := ChainBySignatureValue(a.Chain); ok && a.Type == chain.Blink {
			anchors = append(anchors, chain.Blink+":"+a.SourceID)
			continue
		}
		anchors = append(anchors, a)
	}
	raw["anchors"] = anchors
	if r.SignatureValue != "" {
		raw["signatureValue"] = r.SignatureValue
	}
	if r.VerificationMethod != "" {
		raw["verificationMethod"] = r.VerificationMethod
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return "", err
	}
	return multibaseBase58BTC + base58.Encode(data), nil
}

func receiptFrom(v any) (*Receipt, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidReceipt, err)
	}
	return decodeReceipt(data)
}

// bindAnchor selects the chain and transaction id from the first anchor.
func (c *Certificate) bindAnchor() error {
	if c.Receipt == nil || len(c.Receipt.Anchors) == 0 {
		return ErrMissingAnchor
	}
	anchor := c.Receipt.Anchors[0]
	c.TransactionID = anchor.SourceID

	switch {
	case anchor.Chain != "":
		chain, ok := ChainBySignatureValue(anchor.Chain)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownChain, anchor.Chain)
		}
		c.Chain = chain
	case strings.HasPrefix(strings.ToUpper(anchor.Type), "ETH"):
		c.Chain = EthereumMainnet
	default:
		// Chainpoint v2 anchors without a chain predate testnet support.
		c.Chain = Bitcoin
	}
	return nil
}

func contextURLs(v any) []string {
	switch ctx := v.(type) {
	case string:
		return []string{ctx}
	case []any:
		var out []string
		for _, item := range ctx {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func containsAny(values []string, needles ...string) bool {
	for _, v := range values {
		for _, n := range needles {
			if strings.Contains(v, n) {
				return true
			}
		}
	}
	return false
}

// str walks nested objects and returns the string at path, or "".
func str(m map[string]any, path ...string) string {
	var cur any = m
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = obj[key]
	}
	s, _ := cur.(string)
	return s
}

func fullName(m map[string]any, key string) string {
	if name := str(m, key, "name"); name != "" {
		return name
	}
	return strings.TrimSpace(str(m, key, "givenName") + " " + str(m, key, "familyName"))
}

func without(doc map[string]any, field string) map[string]any {
	out := maps.Clone(doc)
	delete(out, field)
	return out
}
