// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package jsonrpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Version is the protocol version carried in every envelope.
const Version = "2.0"

var (
	// ErrInvalidResponse indicates a payload that is not a JSON-RPC 2.0 response.
	ErrInvalidResponse = errors.New("jsonrpc: invalid response")

	// ErrIDMismatch indicates a response for a different request.
	ErrIDMismatch = errors.New("jsonrpc: response id does not match request")

	// ErrNullResult indicates a successful response whose result is null,
	// which Ethereum nodes return for unknown transactions and blocks.
	ErrNullResult = errors.New("jsonrpc: null result")
)

// Request is a JSON-RPC 2.0 request envelope.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// NewRequest builds a request envelope.
func NewRequest(id int64, method string, params ...any) Request {
	if params == nil {
		params = []any{}
	}
	return Request{JSONRPC: Version, ID: id, Method: method, Params: params}
}

// Response is a JSON-RPC 2.0 response envelope.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error"`
}

// Error is a JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc: error %d: %s", e.Code, e.Message)
}

// Marshal normalizes JSON-RPC payloads to lowercase keys with default version.
//
// Parameters:
//   - data: Raw JSON data to normalize
//
// Returns:
//   - []byte: Normalized JSON data
//   - error: Error if unmarshaling or marshaling fails
func Marshal(data []byte) ([]byte, error) {
	var temp map[string]any
	if err := json.Unmarshal(data, &temp); err != nil {
		return nil, err
	}

	return json.Marshal(Map(temp))
}

// Map converts a decoded JSON-RPC map to canonical lowercase key form.
//
// Top-level keys are lowercased. The "id" value is preserved, with whole
// number floats converted to int64 and an empty object mapped to null.
// A missing "jsonrpc" member defaults to [Version].
func Map(temp map[string]any) map[string]any {
	fixed := make(map[string]any, len(temp)+1)
	for k, v := range temp {
		key := strings.ToLower(k)
		switch key {
		case "id":
			if idMap, ok := v.(map[string]any); ok && len(idMap) == 0 {
				fixed["id"] = nil
			} else {
				fixed["id"] = normalizeIDValue(v)
			}
		default:
			fixed[key] = v
		}
	}

	if _, ok := fixed["jsonrpc"]; !ok {
		fixed["jsonrpc"] = Version
	}

	return fixed
}

// normalizeIDValue converts whole number float64 values to int64 for JSON-RPC ID fields.
func normalizeIDValue(v any) any {
	if f, ok := v.(float64); ok {
		if f == float64(int64(f)) {
			return int64(f)
		}
	}
	return v
}

// UnmarshalFromMap converts a map/any to a struct via JSON round-trip.
func UnmarshalFromMap(src any, dest any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// DecodeResponse decodes the response to req and unmarshals its result into result.
//
// Parameters:
//   - req: Request the response answers
//   - data: Raw response body
//   - result: Pointer receiving the decoded result
//
// Returns:
//   - error: [*Error] for error responses, [ErrNullResult] for null results,
//     [ErrIDMismatch] or [ErrInvalidResponse] for malformed envelopes
func DecodeResponse(req Request, data []byte, result any) error {
	var temp map[string]any
	if err := json.Unmarshal(data, &temp); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	var resp Response
	if err := UnmarshalFromMap(Map(temp), &resp); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if resp.JSONRPC != Version {
		return fmt.Errorf("%w: unsupported version %q", ErrInvalidResponse, resp.JSONRPC)
	}
	if resp.Error != nil {
		return resp.Error
	}
	if id := normalizeIDValue(resp.ID); id != req.ID {
		return fmt.Errorf("%w: got %v, want %d", ErrIDMismatch, resp.ID, req.ID)
	}
	if len(resp.Result) == 0 || string(resp.Result) == "null" {
		return ErrNullResult
	}
	if err := json.Unmarshal(resp.Result, result); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return nil
}
