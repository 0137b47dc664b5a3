// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package certtest builds self-consistent Blockcerts certificates for tests:
// the target hash matches the canonical document and the Merkle path reduces
// to the declared root.
package certtest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"maps"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/canon"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/certificate"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/hashutil"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/merkle"
)

// Options describes the certificate to build. Zero values get defaults.
type Options struct {
	ID                string
	Expires           string
	RevocationKey     string
	IssuerURL         string
	RevocationListURL string
	RecipientName     string
	Chain             certificate.Chain
	TransactionID     string

	// BatchSize is the number of leaves in the anchored batch; 1 yields no path.
	BatchSize int
	// Index is the position of this certificate in the batch.
	Index int

	// IssuerSignature is embedded as the v1.1 signature string.
	IssuerSignature string
	// SignatureValue and VerificationMethod are embedded in v3 proofs.
	SignatureValue     string
	VerificationMethod string

	Canonicalizer canon.Canonicalizer
}

// Fixture is a generated certificate.
type Fixture struct {
	JSON       []byte
	Document   map[string]any
	TargetHash string
	MerkleRoot string
	Path       []merkle.Step
}

func (o *Options) defaults() {
	if o.ID == "" {
		o.ID = "urn:uuid:bbba8553-8ec1-445f-82c9-a57251dd731c"
	}
	if o.IssuerURL == "" {
		o.IssuerURL = "https://issuer.example.org/profile.json"
	}
	if o.RecipientName == "" {
		o.RecipientName = "Ada Lovelace"
	}
	if o.Chain.IsZero() {
		o.Chain = certificate.Bitcoin
	}
	if o.TransactionID == "" {
		o.TransactionID = "2378076e8e140012814e98a2b2cb1af07ec760b239c1d6d93ba54d658a010ecd"
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 1
	}
	if o.Canonicalizer == nil {
		o.Canonicalizer = canon.Default
	}
}

// anchor builds the hash binding for document and returns the receipt pieces.
func (o *Options) anchor(document map[string]any) (Fixture, error) {
	canonical, err := o.Canonicalizer.Canonicalize(document)
	if err != nil {
		return Fixture{}, err
	}
	target := sha256.Sum256(canonical)

	leaves := make([][]byte, o.BatchSize)
	for i := range leaves {
		if i == o.Index {
			leaves[i] = target[:]
			continue
		}
		sibling := sha256.Sum256(fmt.Appendf(nil, "sibling-%d", i))
		leaves[i] = sibling[:]
	}
	root, path, err := merkle.Generate(leaves, o.Index, hashutil.SHA256)
	if err != nil {
		return Fixture{}, err
	}

	return Fixture{
		Document:   document,
		TargetHash: fmt.Sprintf("%x", target),
		MerkleRoot: root,
		Path:       path,
	}, nil
}

func (o *Options) chainpoint(f Fixture) map[string]any {
	proof := make([]map[string]string, 0, len(f.Path))
	for _, step := range f.Path {
		proof = append(proof, map[string]string{string(step.Direction): step.Hash})
	}
	anchorType := "BTCOpReturn"
	if o.Chain.Family == certificate.FamilyEthereum {
		anchorType = "ETHData"
	}
	return map[string]any{
		"type":       []string{"MerkleProof2017", "Extension"},
		"targetHash": f.TargetHash,
		"merkleRoot": f.MerkleRoot,
		"proof":      proof,
		"anchors": []map[string]string{{
			"sourceId": o.TransactionID,
			"type":     anchorType,
			"chain":    o.Chain.SignatureValue,
		}},
	}
}

// V2 builds a version 2.0 certificate.
func V2(o Options) (Fixture, error) {
	o.defaults()
	issuer := map[string]any{
		"id":   o.IssuerURL,
		"type": "Profile",
		"name": "Example University",
	}
	if o.RevocationListURL != "" {
		issuer["revocationList"] = o.RevocationListURL
	}
	doc := map[string]any{
		"@context": []any{
			"https://w3id.org/openbadges/v2",
			"https://w3id.org/blockcerts/v2",
		},
		"type": "Assertion",
		"id":   o.ID,
		"badge": map[string]any{
			"type":   "BadgeClass",
			"name":   "Certificate of Accomplishment",
			"issuer": issuer,
		},
		"recipient": map[string]any{
			"type":     "email",
			"identity": "ada@example.org",
			"hashed":   false,
		},
		"recipientProfile": map[string]any{
			"type": []any{"RecipientProfile", "Extension"},
			"name": o.RecipientName,
		},
		"issuedOn":     "2018-06-01T00:00:00Z",
		"metadataJson": `{"course":"analytical engines"}`,
	}
	if o.Expires != "" {
		doc["expires"] = o.Expires
	}

	f, err := o.anchor(doc)
	if err != nil {
		return Fixture{}, err
	}
	full := maps.Clone(doc)
	full["signature"] = o.chainpoint(f)
	return f.marshal(full)
}

// V1_2 builds a version 1.2 certificate.
func V1_2(o Options) (Fixture, error) {
	o.defaults()
	assertion := map[string]any{
		"uid":      o.ID,
		"id":       "https://issuer.example.org/" + o.ID,
		"issuedOn": "2017-03-01",
	}
	if o.Expires != "" {
		assertion["expires"] = o.Expires
	}
	recipient := map[string]any{
		"givenName":  "Ada",
		"familyName": "Lovelace",
	}
	if o.RevocationKey != "" {
		recipient["revocationKey"] = o.RevocationKey
	}
	document := map[string]any{
		"certificate": map[string]any{
			"name":   "Certificate of Accomplishment",
			"issuer": map[string]any{"id": o.IssuerURL},
		},
		"assertion": assertion,
		"recipient": recipient,
		"signature": "IPlaceholderIssuerSignature=",
	}

	f, err := o.anchor(document)
	if err != nil {
		return Fixture{}, err
	}
	receipt := o.chainpoint(f)
	receipt["type"] = "ChainpointSHA256v2"
	full := map[string]any{
		"@context": "https://w3id.org/blockcerts/v1",
		"document": document,
		"receipt":  receipt,
	}
	return f.marshal(full)
}

// V1_1 builds a version 1.1 certificate with its receipt alongside.
func V1_1(o Options) (Fixture, error) {
	o.defaults()
	assertion := map[string]any{
		"uid":      o.ID,
		"issuedOn": "2016-05-01",
	}
	if o.Expires != "" {
		assertion["expires"] = o.Expires
	}
	recipient := map[string]any{
		"givenName":  "Ada",
		"familyName": "Lovelace",
	}
	if o.RevocationKey != "" {
		recipient["revocationKey"] = o.RevocationKey
	}
	doc := map[string]any{
		"certificate": map[string]any{
			"name":   "Certificate of Accomplishment",
			"issuer": map[string]any{"id": o.IssuerURL},
		},
		"assertion": assertion,
		"recipient": recipient,
		"signature": o.IssuerSignature,
	}
	if o.IssuerSignature == "" {
		doc["signature"] = "IPlaceholderIssuerSignature="
	}

	f, err := o.anchor(doc)
	if err != nil {
		return Fixture{}, err
	}
	receipt := o.chainpoint(f)
	receipt["type"] = "ChainpointSHA256v2"
	full := maps.Clone(doc)
	full["receipt"] = receipt
	return f.marshal(full)
}

// V3 builds a version 3.0 certificate. Set alpha to build a 3.0-alpha one.
func V3(o Options, alpha bool) (Fixture, error) {
	o.defaults()
	blockcertsContext := "https://w3id.org/blockcerts/v3"
	if alpha {
		blockcertsContext = "https://www.blockcerts.org/schema/3.0-alpha/context.json"
	}
	doc := map[string]any{
		"@context": []any{
			"https://www.w3.org/2018/credentials/v1",
			blockcertsContext,
		},
		"id":           o.ID,
		"type":         []any{"VerifiableCredential", "BlockcertsCredential"},
		"issuer":       o.IssuerURL,
		"issuanceDate": "2022-01-10T10:00:00Z",
		"credentialSubject": map[string]any{
			"id":   "did:example:ebfeb1f712ebc6f1c276e12ec21",
			"name": o.RecipientName,
		},
		"metadataJson": `{"classOf":"2021"}`,
	}
	if o.Expires != "" {
		doc["expirationDate"] = o.Expires
	}
	if o.RevocationListURL != "" {
		doc["credentialStatus"] = map[string]any{
			"id":   o.RevocationListURL,
			"type": "RevocationList",
		}
	}

	f, err := o.anchor(doc)
	if err != nil {
		return Fixture{}, err
	}

	receipt := &certificate.Receipt{
		Type:       "MerkleProof2019",
		TargetHash: f.TargetHash,
		MerkleRoot: f.MerkleRoot,
		Path:       f.Path,
		Anchors: []certificate.Anchor{{
			SourceID: o.TransactionID,
			Type:     o.Chain.Blink,
			Chain:    o.Chain.SignatureValue,
		}},
	}
	proofValue, err := certificate.EncodeProofValue(receipt)
	if err != nil {
		return Fixture{}, err
	}

	proof := map[string]any{
		"type":         "MerkleProof2019",
		"created":      "2022-01-10T10:00:01Z",
		"proofValue":   proofValue,
		"proofPurpose": "assertionMethod",
	}
	if o.VerificationMethod != "" {
		proof["verificationMethod"] = o.VerificationMethod
	}
	if o.SignatureValue != "" {
		proof["signatureValue"] = o.SignatureValue
	}

	full := maps.Clone(doc)
	full["proof"] = proof
	return f.marshal(full)
}

func (f Fixture) marshal(full map[string]any) (Fixture, error) {
	data, err := json.Marshal(full)
	if err != nil {
		return Fixture{}, err
	}
	f.JSON = data
	return f, nil
}

// Must panics if err is non-nil and returns f otherwise.
func Must(f Fixture, err error) Fixture {
	if err != nil {
		panic(err)
	}
	return f
}

// Tamper decodes f.JSON, applies edit and re-encodes it without re-anchoring.
func Tamper(f Fixture, edit func(doc map[string]any)) []byte {
	var doc map[string]any
	if err := json.Unmarshal(f.JSON, &doc); err != nil {
		panic(err)
	}
	edit(doc)
	data, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return data
}
