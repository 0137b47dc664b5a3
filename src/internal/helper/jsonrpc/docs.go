// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package jsonrpc provides helper functions for [JSON-RPC 2.0] message handling
// when talking to Ethereum nodes. It builds request envelopes, normalizes
// response payloads (lowercase keys, integral ids), and turns error objects
// into Go errors.
//
// [JSON-RPC 2.0]: https://www.jsonrpc.org/specification
package jsonrpc
