// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface for the Blockcerts verifier.
// It implements a Cobra-based CLI that reads a certificate, resolves its issuer
// profile and revocation list, runs the verification steps and prints the
// outcome as streamed progress, JSON, an ASCII tree or a markdown table.
// Configuration is read from a JSON or YAML file (see [LoadConfig]) and the
// package integrates with the logger package for diagnostics.
package cli
