// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package explorer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/certificate"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/version"
)

var (
	// ErrInvalidPriority indicates an [ExplorerAPI] priority other than 0 or 1.
	ErrInvalidPriority = errors.New("explorer: priority must be 0 or 1")

	// ErrInvalidExplorerAPI indicates an [ExplorerAPI] without a service URL or parser.
	ErrInvalidExplorerAPI = errors.New("explorer: explorer API needs a service URL and a parser")

	// ErrTransactionNotFound indicates that no explorer produced transaction data.
	ErrTransactionNotFound = errors.New("explorer: transaction not found")

	// ErrUnconfirmed indicates a transaction that is not yet in a block.
	ErrUnconfirmed = errors.New("explorer: transaction is not confirmed")

	// ErrNoAnchoredHash indicates a transaction without an OP_RETURN or input data hash.
	ErrNoAnchoredHash = errors.New("explorer: transaction carries no anchored hash")

	// ErrMalformedResponse indicates an explorer response that cannot be decoded.
	ErrMalformedResponse = errors.New("explorer: malformed response")
)

const (
	// PriorityBeforeDefaults places a custom explorer ahead of the built-in ones.
	PriorityBeforeDefaults = 0
	// PriorityAfterDefaults places a custom explorer after the built-in ones.
	PriorityAfterDefaults = 1

	// APITokenPlaceholder is replaced by [ExplorerAPI.APIToken] in service URLs.
	APITokenPlaceholder = "{api_token}"
)

// Explorer fetches and parses a transaction from one data source.
type Explorer interface {
	// Name identifies the explorer in logs, metrics and errors.
	Name() string
	// Fetch returns the raw response describing txID.
	Fetch(ctx context.Context, txID string, chain certificate.Chain) ([]byte, error)
	// Parse converts a raw response into transaction data. It must not do I/O.
	Parse(raw []byte, chain certificate.Chain) (*TransactionData, error)
}

// ParsingFunc converts an explorer response into transaction data.
type ParsingFunc func(raw []byte, chain certificate.Chain) (*TransactionData, error)

// ExplorerAPI describes a caller supplied explorer.
type ExplorerAPI struct {
	// Name identifies the explorer; defaults to the service host.
	Name string
	// ServiceURL may contain {transaction_id} and {api_token}; without the
	// former the transaction id is appended as the last path segment.
	ServiceURL string
	// Priority is [PriorityBeforeDefaults] or [PriorityAfterDefaults].
	Priority int
	// Parse converts the service response.
	Parse ParsingFunc
	// APIToken replaces {api_token} in ServiceURL.
	APIToken string
}

// FromAPI adapts api into an [Explorer] that issues GET requests through httpCfg.
func FromAPI(api ExplorerAPI, httpCfg *HTTPConfig) (Explorer, error) {
	if api.ServiceURL == "" || api.Parse == nil {
		return nil, ErrInvalidExplorerAPI
	}
	if httpCfg == nil {
		httpCfg = NewHTTPConfig(version.Version)
	}

	name := api.Name
	if name == "" {
		name = api.ServiceURL
		if u, err := url.Parse(api.ServiceURL); err == nil && u.Host != "" {
			name = u.Host
		}
	}
	return &apiExplorer{api: api, name: name, http: httpCfg}, nil
}

type apiExplorer struct {
	api  ExplorerAPI
	name string
	http *HTTPConfig
}

func (e *apiExplorer) Name() string { return e.name }

func (e *apiExplorer) Fetch(ctx context.Context, txID string, _ certificate.Chain) ([]byte, error) {
	return e.http.Get(ctx, serviceURL(e.api.ServiceURL, txID, e.api.APIToken))
}

func (e *apiExplorer) Parse(raw []byte, chain certificate.Chain) (*TransactionData, error) {
	return e.api.Parse(raw, chain)
}

// serviceURL expands the placeholders of template.
func serviceURL(template, txID, token string) string {
	u := strings.ReplaceAll(template, APITokenPlaceholder, url.QueryEscape(token))
	if strings.Contains(u, certificate.TransactionIDPlaceholder) {
		return strings.ReplaceAll(u, certificate.TransactionIDPlaceholder, url.PathEscape(txID))
	}
	return strings.TrimRight(u, "/") + "/" + url.PathEscape(txID)
}

// Resolve returns the ordered explorer list for chain: custom entries with
// priority 0 in the given order, then defaults, then custom entries with
// priority 1 in the given order. Mock chains have no explorers.
//
// Parameters:
//   - chain: Chain the certificate is anchored on
//   - custom: Caller supplied explorers
//   - defaults: Built-in explorers, usually from [Defaults]
//   - httpCfg: HTTP configuration used by adapted custom explorers
//
// Returns:
//   - []Explorer: Explorers in lookup order
//   - error: [ErrInvalidPriority] or [ErrInvalidExplorerAPI]
func Resolve(chain certificate.Chain, custom []ExplorerAPI, defaults []Explorer, httpCfg *HTTPConfig) ([]Explorer, error) {
	var before, after []Explorer
	for i, api := range custom {
		e, err := FromAPI(api, httpCfg)
		if err != nil {
			return nil, fmt.Errorf("explorer API %d: %w", i, err)
		}
		switch api.Priority {
		case PriorityBeforeDefaults:
			before = append(before, e)
		case PriorityAfterDefaults:
			after = append(after, e)
		default:
			return nil, fmt.Errorf("%w: explorer API %d has priority %d", ErrInvalidPriority, i, api.Priority)
		}
	}

	if chain.IsMock() {
		return nil, nil
	}

	out := make([]Explorer, 0, len(before)+len(defaults)+len(after))
	out = append(out, before...)
	out = append(out, defaults...)
	out = append(out, after...)
	return out, nil
}
