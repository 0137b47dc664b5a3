// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package merkle

import (
	"fmt"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/hashutil"
)

// Generate builds a tree over leaves and returns the root and the path for leaves[index].
// An odd node at the end of a level is promoted unchanged, as Chainpoint
// issuers do, so it contributes no path entry at that level.
func Generate(leaves [][]byte, index int, alg hashutil.Algorithm) (string, []Step, error) {
	if len(leaves) == 0 {
		return "", nil, ErrEmptyLeaves
	}
	if index < 0 || index >= len(leaves) {
		return "", nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	if alg == "" {
		alg = hashutil.SHA256
	}

	level := make([][]byte, len(leaves))
	copy(level, leaves)

	var path []Step
	for len(level) > 1 {
		next := make([][]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}

			switch index {
			case i:
				path = append(path, Step{Hash: fmt.Sprintf("%x", level[i+1]), Direction: Right})
			case i + 1:
				path = append(path, Step{Hash: fmt.Sprintf("%x", level[i]), Direction: Left})
			}

			parent, err := hashutil.Sum(alg, level[i], level[i+1])
			if err != nil {
				return "", nil, err
			}
			next = append(next, parent)
		}
		index /= 2
		level = next
	}

	return fmt.Sprintf("%x", level[0]), path, nil
}
