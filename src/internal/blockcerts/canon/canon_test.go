// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package canon_test

import (
	"errors"
	"math"
	"testing"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/canon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJCS(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Sorted keys without whitespace",
			testFunc: func(t *testing.T) {
				out, err := canon.JCS{}.Canonicalize(map[string]any{
					"type":   "Assertion",
					"@id":    "urn:uuid:1",
					"nested": map[string]any{"b": 1, "a": []any{true, nil}},
				})
				require.NoError(t, err)
				assert.Equal(t, `{"@id":"urn:uuid:1","nested":{"a":[true,null],"b":1},"type":"Assertion"}`, string(out))
			},
		},
		{
			name: "Byte stable across calls",
			testFunc: func(t *testing.T) {
				doc := map[string]any{"z": "1", "y": 2.5, "x": map[string]any{"k": "v"}}
				first, err := canon.Default.Canonicalize(doc)
				require.NoError(t, err)
				for i := 0; i < 10; i++ {
					again, err := canon.Default.Canonicalize(doc)
					require.NoError(t, err)
					assert.Equal(t, first, again)
				}
			},
		},
		{
			name: "Nil document",
			testFunc: func(t *testing.T) {
				_, err := canon.JCS{}.Canonicalize(nil)
				assert.ErrorIs(t, err, canon.ErrCanonicalization)
			},
		},
		{
			name: "Unmarshalable value",
			testFunc: func(t *testing.T) {
				_, err := canon.JCS{}.Canonicalize(map[string]any{"n": math.Inf(1)})
				assert.ErrorIs(t, err, canon.ErrCanonicalization)
			},
		},
		{
			name: "Func adapter",
			testFunc: func(t *testing.T) {
				boom := errors.New("boom")
				c := canon.Func(func(map[string]any) ([]byte, error) { return nil, boom })
				_, err := c.Canonicalize(map[string]any{})
				assert.ErrorIs(t, err, boom)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.testFunc)
	}
}
