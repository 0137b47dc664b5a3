// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package explorer_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/certificate"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/explorer"
)

const anchoredHash = "68f3ede17fdb67ffd4a5164b5687a71f9fbb68da803b803935720f2aa38f7728"

var errBoom = errors.New("boom")

type fakeExplorer struct {
	name     string
	fetchErr error
	parseErr error
	calls    int
}

func (f *fakeExplorer) Name() string { return f.name }

func (f *fakeExplorer) Fetch(context.Context, string, certificate.Chain) ([]byte, error) {
	f.calls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return []byte(f.name), nil
}

func (f *fakeExplorer) Parse(raw []byte, _ certificate.Chain) (*explorer.TransactionData, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return explorer.NewTransactionData(anchoredHash, string(raw), time.Unix(1500000000, 0), nil), nil
}

func names(explorers []explorer.Explorer) []string {
	out := make([]string, 0, len(explorers))
	for _, e := range explorers {
		out = append(out, e.Name())
	}
	return out
}

func parseNothing([]byte, certificate.Chain) (*explorer.TransactionData, error) { return nil, errBoom }

func TestResolve(t *testing.T) {
	defaults := []explorer.Explorer{&fakeExplorer{name: "d1"}, &fakeExplorer{name: "d2"}}

	tests := []struct {
		name     string
		chain    certificate.Chain
		custom   []explorer.ExplorerAPI
		expected []string
		wantErr  error
	}{
		{
			name:     "defaults only",
			chain:    certificate.Bitcoin,
			expected: []string{"d1", "d2"},
		},
		{
			name:  "priority 0 before and priority 1 after defaults in given order",
			chain: certificate.Bitcoin,
			custom: []explorer.ExplorerAPI{
				{Name: "a", ServiceURL: "https://a.example", Priority: 0, Parse: parseNothing},
				{Name: "b", ServiceURL: "https://b.example", Priority: 1, Parse: parseNothing},
				{Name: "c", ServiceURL: "https://c.example", Priority: 0, Parse: parseNothing},
				{Name: "e", ServiceURL: "https://e.example", Priority: 1, Parse: parseNothing},
			},
			expected: []string{"a", "c", "d1", "d2", "b", "e"},
		},
		{
			name:  "name defaults to host",
			chain: certificate.Bitcoin,
			custom: []explorer.ExplorerAPI{
				{ServiceURL: "https://api.example.org/tx/{transaction_id}", Priority: 1, Parse: parseNothing},
			},
			expected: []string{"d1", "d2", "api.example.org"},
		},
		{
			name:  "invalid priority",
			chain: certificate.Bitcoin,
			custom: []explorer.ExplorerAPI{
				{Name: "a", ServiceURL: "https://a.example", Priority: 2, Parse: parseNothing},
			},
			wantErr: explorer.ErrInvalidPriority,
		},
		{
			name:  "negative priority",
			chain: certificate.Bitcoin,
			custom: []explorer.ExplorerAPI{
				{Name: "a", ServiceURL: "https://a.example", Priority: -1, Parse: parseNothing},
			},
			wantErr: explorer.ErrInvalidPriority,
		},
		{
			name:  "missing parser",
			chain: certificate.Bitcoin,
			custom: []explorer.ExplorerAPI{
				{Name: "a", ServiceURL: "https://a.example"},
			},
			wantErr: explorer.ErrInvalidExplorerAPI,
		},
		{
			name:  "mock chain has no explorers",
			chain: certificate.Mocknet,
			custom: []explorer.ExplorerAPI{
				{Name: "a", ServiceURL: "https://a.example", Parse: parseNothing},
			},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := explorer.Resolve(tt.chain, tt.custom, defaults, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, names(got))
		})
	}
}

func TestLookup(t *testing.T) {
	t.Run("first success wins and later explorers are never called", func(t *testing.T) {
		a := &fakeExplorer{name: "a", fetchErr: errBoom}
		b := &fakeExplorer{name: "b"}
		c := &fakeExplorer{name: "c"}

		data, err := explorer.Lookup(context.Background(), "tx", certificate.Bitcoin, []explorer.Explorer{a, b, c})
		require.NoError(t, err)

		assert.Equal(t, "b", data.IssuingAddress())
		assert.Equal(t, anchoredHash, data.RemoteHash())
		assert.Equal(t, 1, a.calls)
		assert.Equal(t, 1, b.calls)
		assert.Equal(t, 0, c.calls)
	})

	t.Run("unparseable response falls through", func(t *testing.T) {
		a := &fakeExplorer{name: "a", parseErr: explorer.ErrMalformedResponse}
		b := &fakeExplorer{name: "b"}

		data, err := explorer.Lookup(context.Background(), "tx", certificate.Bitcoin, []explorer.Explorer{a, b})
		require.NoError(t, err)
		assert.Equal(t, "b", data.IssuingAddress())
	})

	t.Run("exhaustion reports every cause", func(t *testing.T) {
		a := &fakeExplorer{name: "a", fetchErr: errBoom}
		b := &fakeExplorer{name: "b", parseErr: explorer.ErrUnconfirmed}

		data, err := explorer.Lookup(context.Background(), "tx", certificate.Bitcoin, []explorer.Explorer{a, b})
		require.Error(t, err)
		assert.Nil(t, data)
		assert.ErrorIs(t, err, explorer.ErrTransactionNotFound)
		assert.ErrorIs(t, err, errBoom)
		assert.ErrorIs(t, err, explorer.ErrUnconfirmed)

		var notFound *explorer.TransactionNotFoundError
		require.ErrorAs(t, err, &notFound)
		require.Len(t, notFound.Failures, 2)
		assert.Equal(t, "a", notFound.Failures[0].Explorer)
		assert.Equal(t, "b", notFound.Failures[1].Explorer)
		assert.Equal(t, 1, a.calls)
		assert.Equal(t, 1, b.calls)
	})

	t.Run("no explorers", func(t *testing.T) {
		_, err := explorer.Lookup(context.Background(), "tx", certificate.Bitcoin, nil)
		assert.ErrorIs(t, err, explorer.ErrTransactionNotFound)
		assert.Contains(t, err.Error(), "no explorers configured")
	})

	t.Run("cancelled context stops the fallback", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		a := &fakeExplorer{name: "a"}

		_, err := explorer.Lookup(ctx, "tx", certificate.Bitcoin, []explorer.Explorer{a})
		assert.ErrorIs(t, err, explorer.ErrTransactionNotFound)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, a.calls)
	})
}

func TestFromAPI(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery, gotUA = r.URL.Path, r.URL.RawQuery, r.UserAgent()
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tests := []struct {
		name      string
		url       string
		wantPath  string
		wantQuery string
	}{
		{name: "placeholder", url: srv.URL + "/tx/{transaction_id}/json?token={api_token}", wantPath: "/tx/abc/json", wantQuery: "token=s3cr%2Bt"},
		{name: "appended", url: srv.URL + "/rawtx/", wantPath: "/rawtx/abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var parsed []byte
			e, err := explorer.FromAPI(explorer.ExplorerAPI{
				ServiceURL: tt.url,
				APIToken:   "s3cr+t",
				Parse: func(raw []byte, _ certificate.Chain) (*explorer.TransactionData, error) {
					parsed = raw
					return explorer.NewTransactionData(anchoredHash, "addr", time.Now(), nil), nil
				},
			}, &explorer.HTTPConfig{Timeout: time.Second, UserAgent: "test-agent"})
			require.NoError(t, err)

			data, err := explorer.Lookup(context.Background(), "abc", certificate.Bitcoin, []explorer.Explorer{e})
			require.NoError(t, err)
			assert.Equal(t, "addr", data.IssuingAddress())
			assert.JSONEq(t, `{"ok":true}`, string(parsed))
			assert.Equal(t, tt.wantPath, gotPath)
			assert.Equal(t, tt.wantQuery, gotQuery)
			assert.Equal(t, "test-agent", gotUA)
		})
	}
}

func TestHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := explorer.NewHTTPConfig("test")
	_, err := cfg.Get(context.Background(), srv.URL)

	var statusErr *explorer.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Contains(t, cfg.GetUserAgent(), "Blockcerts-Verifier/test")
}

func TestTransactionDataIsImmutable(t *testing.T) {
	revoked := []string{"1A", "1B"}
	data := explorer.NewTransactionData("0X"+anchoredHash, "1C", time.Unix(0, 0), revoked)

	revoked[0] = "changed"
	got := data.RevokedAddresses()
	got[1] = "changed"

	assert.Equal(t, []string{"1A", "1B"}, data.RevokedAddresses())
	assert.Equal(t, anchoredHash, data.RemoteHash())
	assert.True(t, data.IsRevoked("1B"))
	assert.False(t, data.IsRevoked(""))
	assert.Equal(t, time.UTC, data.Time().Location())
}

func TestDefaults(t *testing.T) {
	cfg := explorer.NewConfig()

	assert.Equal(t, []string{explorer.BlockstreamName, explorer.BlockCypherName},
		names(explorer.Defaults(certificate.Bitcoin, cfg)))
	assert.Equal(t, []string{explorer.BlockstreamName, explorer.BlockCypherName},
		names(explorer.Defaults(certificate.BitcoinTestnet, cfg)))
	assert.Equal(t, []string{explorer.EtherscanName},
		names(explorer.Defaults(certificate.EthereumSepolia, cfg)))
	assert.Empty(t, explorer.Defaults(certificate.Mocknet, cfg))
	assert.Empty(t, explorer.Defaults(certificate.BitcoinRegtest, cfg))

	cfg.EthereumRPC = "http://localhost:8545"
	assert.Equal(t, []string{explorer.EtherscanName, explorer.JSONRPCName},
		names(explorer.Defaults(certificate.EthereumMainnet, cfg)))

	assert.NotEmpty(t, explorer.Defaults(certificate.Bitcoin, nil))
}

func TestParserByName(t *testing.T) {
	for _, name := range []string{"blockstream", "Esplora", "blockcypher", " etherscan ", "ethereum"} {
		p, ok := explorer.ParserByName(name)
		assert.True(t, ok, name)
		assert.NotNil(t, p, name)
	}
	_, ok := explorer.ParserByName("insight")
	assert.False(t, ok)
}
