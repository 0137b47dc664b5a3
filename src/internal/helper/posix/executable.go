// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultExecutableName is used when os.Args carries no program name.
const DefaultExecutableName = "blockcerts-verifier"

// GetExecutableName returns the executable name without extension, cross-platform compatible.
// It takes the last path component of os.Args[0], accepting both separators, and
// trims a trailing .exe so usage strings read the same on every OS:
//   - Linux/macOS: "blockcerts-verifier" from "/usr/local/bin/blockcerts-verifier"
//   - Windows: "blockcerts-verifier" from "C:\bin\blockcerts-verifier.exe"
//   - Fallback: [DefaultExecutableName] if os.Args[0] is unavailable
func GetExecutableName() string {
	if len(os.Args) == 0 || os.Args[0] == "" {
		return DefaultExecutableName
	}

	name := filepath.Base(os.Args[0])

	// A Windows path on Unix, or the reverse, survives filepath.Base intact.
	if strings.ContainsAny(name, `/\`) {
		parts := strings.FieldsFunc(name, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) == 0 {
			return DefaultExecutableName
		}
		name = parts[len(parts)-1]
	}

	return strings.TrimSuffix(name, ".exe")
}
