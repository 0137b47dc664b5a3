// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509certs decodes [X.509] material that issuers publish as signing
// keys: certificates in [PEM] or DER form, [PKCS7] bundles, and bare PKIX
// public keys. The signature package uses it to turn an issuer key entry
// into a [crypto.PublicKey].
//
// [X.509]: https://grokipedia.com/page/X.509
// [PKCS7]: https://grokipedia.com/page/PKCS_7
// [PEM]: https://grokipedia.com/page/PEM#privacy-enhanced-mail
package x509certs
