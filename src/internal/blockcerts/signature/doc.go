// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package signature verifies issuer signatures on Blockcerts certificates.
//
// Version 1.1 certificates carry a Bitcoin signed message over the
// certificate id, checked by recovering the signing key and comparing its
// address with an issuer key. Version 3 proofs may carry a detached
// signature over the target hash, checked against secp256k1, ed25519,
// ECDSA P-256 or RSA keys, including keys wrapped in X.509 certificates.
package signature
