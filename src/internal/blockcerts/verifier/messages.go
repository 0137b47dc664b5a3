// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package verifier

import (
	"fmt"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/certificate"
)

// MockSuccessMessage is reported for mock chain certificates that pass.
const MockSuccessMessage = "This mock Blockcert passed all checks. Mocknet mode is only used " +
	"for issuers to test their workflow locally. This Blockcert was not recorded on a " +
	"blockchain, and it should not be considered a verified Blockcert."

// finalMessage depends only on the profile family, the chain and the verdict.
func finalMessage(f family, chain certificate.Chain, status Status) string {
	if status == StatusFailure {
		return fmt.Sprintf("This %s is not valid.", f)
	}
	if chain.IsMock() {
		return MockSuccessMessage
	}
	return fmt.Sprintf("This is a valid %s %s.", chain.DisplayName(), f)
}
