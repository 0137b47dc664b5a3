// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package logger provides abstraction and implementation for logging operations.
// It defines the Logger interface and provides three implementations: CLILogger for
// human-readable command-line output, JSONLogger for line-delimited JSON logging
// when verification results are piped to other tools, and ZapLogger for structured
// production logging backed by [zap]. All implementations are safe for concurrent use.
//
// [zap]: https://github.com/uber-go/zap
package logger
