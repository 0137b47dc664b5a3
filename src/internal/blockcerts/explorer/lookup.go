// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package explorer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/certificate"
)

// Failure records why one explorer did not produce transaction data.
type Failure struct {
	Explorer string
	Err      error
}

// TransactionNotFoundError is returned by [Lookup] when every explorer failed.
// It matches [ErrTransactionNotFound] with errors.Is and unwraps to the
// individual causes.
type TransactionNotFoundError struct {
	TxID     string
	Chain    string
	Failures []Failure
}

func (e *TransactionNotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s on %s", ErrTransactionNotFound, e.TxID, e.Chain)
	if len(e.Failures) == 0 {
		b.WriteString(" (no explorers configured)")
		return b.String()
	}
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "; %s: %v", f.Explorer, f.Err)
	}
	return b.String()
}

// Is reports whether target is [ErrTransactionNotFound].
func (e *TransactionNotFoundError) Is(target error) bool { return target == ErrTransactionNotFound }

// Unwrap returns the per-explorer causes.
func (e *TransactionNotFoundError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// Lookup queries explorers in order and returns the first parsed transaction.
// Each explorer is tried at most once and explorers after the first success
// are never contacted.
//
// Parameters:
//   - ctx: Context for cancellation and timeouts
//   - txID: Anchoring transaction id
//   - chain: Chain the transaction lives on
//   - explorers: Explorers in priority order, usually from [Resolve]
//
// Returns:
//   - *TransactionData: Data from the first explorer that succeeded
//   - error: *[TransactionNotFoundError] when all explorers failed
func Lookup(ctx context.Context, txID string, chain certificate.Chain, explorers []Explorer) (*TransactionData, error) {
	notFound := &TransactionNotFoundError{TxID: txID, Chain: chain.Code}

	for _, e := range explorers {
		if err := ctx.Err(); err != nil {
			notFound.Failures = append(notFound.Failures, Failure{Explorer: e.Name(), Err: err})
			return nil, notFound
		}

		data, err := try(ctx, e, txID, chain)
		if err == nil {
			return data, nil
		}
		notFound.Failures = append(notFound.Failures, Failure{Explorer: e.Name(), Err: err})
	}

	return nil, notFound
}

func try(ctx context.Context, e Explorer, txID string, chain certificate.Chain) (*TransactionData, error) {
	name := e.Name()

	start := time.Now()
	raw, err := e.Fetch(ctx, txID, chain)
	requestDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(name, outcomeFetchError).Inc()
		return nil, err
	}

	data, err := e.Parse(raw, chain)
	if err == nil && data == nil {
		err = fmt.Errorf("%w: parser returned no data", ErrMalformedResponse)
	}
	if err != nil {
		requestsTotal.WithLabelValues(name, outcomeParseError).Inc()
		return nil, err
	}

	requestsTotal.WithLabelValues(name, outcomeSuccess).Inc()
	return data, nil
}
