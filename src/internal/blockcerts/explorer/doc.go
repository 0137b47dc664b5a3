// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package explorer looks up anchoring transactions on public blockchain
// explorers and normalizes their responses into [TransactionData].
//
// Explorers are tried strictly in order by [Lookup]; the first one that
// returns a parseable, confirmed transaction is authoritative and the rest
// are never contacted. [Resolve] builds that order from caller supplied
// [ExplorerAPI] entries (priority 0 before the built-in defaults, priority 1
// after) and the chain's [Defaults].
package explorer
