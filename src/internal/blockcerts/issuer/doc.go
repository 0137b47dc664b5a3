// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package issuer models issuer profiles and revocation lists.
//
// A profile lists the keys an issuer has signed or anchored with, each with
// the window in which it was valid. The verifier never fetches profiles
// itself; callers resolve them up front, typically with a [Resolver], and
// hand the result to the verifier.
//
// Three profile shapes are understood:
//
//   - v1 profiles with "issuerKeys" ({"date", "key"}).
//   - v2 profiles with "publicKey" entries ("ecdsa-koblitz-pubkey:<address>").
//   - v3 profiles with DID style "verificationMethod" entries.
//
// Revocation lists use the "revokedAssertions" shape:
//
//	{
//	  "revokedAssertions": [
//	    {"id": "urn:uuid:...", "revocationReason": "..."}
//	  ]
//	}
package issuer
