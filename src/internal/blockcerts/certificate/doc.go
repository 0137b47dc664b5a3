// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package certificate models a [Blockcerts] credential as the verifier sees it:
// the version, the blockchain it is anchored on, the receipt proving inclusion
// of its hash, and the document whose hash is recomputed locally.
//
// [Parse] detects the certificate version (v1.1, v1.2, v2.0, v3.0-alpha, v3.0),
// validates the document shape against a per-version JSON schema and extracts
// the anchoring data. Version 3 receipts are read from the multibase encoded
// proofValue of the MerkleProof2019 proof. Anchors may be Chainpoint objects
// or [BLINK] identifiers.
//
// [Blockcerts]: https://www.blockcerts.org
// [BLINK]: https://w3c-ccg.github.io/BLINK/
package certificate
