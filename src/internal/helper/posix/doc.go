// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package posix provides [POSIX]-friendly helpers for the verifier's command line.
//
// Key functions:
//   - GetExecutableName: The program name without directory or .exe suffix,
//     used in cobra usage strings
//
// # Usage
//
//	rootCmd := &cobra.Command{
//	    Use:   posix.GetExecutableName() + " -f CERTIFICATE [FLAGS]",
//	    Short: "Blockcerts certificate verifier",
//	}
//
// Behavior by platform:
//
//   - Linux/macOS: "/usr/bin/blockcerts-verifier" → "blockcerts-verifier"
//   - Windows: "C:\bin\blockcerts-verifier.exe" → "blockcerts-verifier"
//   - Empty args → [DefaultExecutableName]
//
// [POSIX]: https://grokipedia.com/page/POSIX
package posix
