// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// blockcerts-verifier is a command-line tool for verifying Blockcerts
// certificates against the blockchain they are anchored on.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/H0llyW00dzZ/blockcerts-verifier/cmd/blockcerts-verifier@latest
//
// # Usage
//
//	blockcerts-verifier -f CERTIFICATE [FLAGS]
//
// # Flags
//
//	-f, --file              Certificate JSON file (v1.1, v1.2, v2.0, v3.0-alpha, v3.0) [required]
//	    --issuer-profile    Issuer profile file or URL (default: from the certificate)
//	    --revocation-list   Revocation list file or URL (default: from the certificate or profile)
//	    --config            Configuration file, .json/.yaml/.yml (default: $BLOCKCERTS_VERIFIER_CONFIG)
//	    --timeout           HTTP timeout in seconds
//	    --log-format        Diagnostic log format: text, json or zap (written to stderr)
//	    --metrics-file      Write Prometheus metrics in text format after verification
//	-j, --json              Emit the verification result as JSON
//	-t, --tree              Display the step log as an ASCII tree
//	    --table             Display the step log as a markdown table
//
// # Exit Status
//
// 0 when the certificate is valid, 2 when a verification step failed,
// 130 when interrupted and 1 for any other error.
//
// # Examples
//
// Verify a certificate, streaming each step:
//
//	blockcerts-verifier -f certificate.json
//
// Verify offline issuer data and print JSON:
//
//	blockcerts-verifier -f certificate.json --issuer-profile profile.json \
//	  --revocation-list revocations.json --json
//
// Use a private Esplora instance ahead of the public explorers:
//
//	cat > verifier.yaml <<EOF
//	explorers:
//	  - name: esplora
//	    serviceURL: https://esplora.internal/api/tx/{transaction_id}
//	    priority: 0
//	    parser: esplora
//	EOF
//	blockcerts-verifier -f certificate.json --config verifier.yaml
package main
