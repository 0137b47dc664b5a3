// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package verifier_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/certificate"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/certificate/certtest"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/explorer"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/issuer"
)

const (
	issuerAddress    = "1AwdUWQzJgfDDjeKtpPzMfYMHejFBrxZfo"
	ethIssuerAddress = "0x3d995ef85a8d1bcbed78182ab225b9f88dc8937c"
)

var (
	txTime  = time.Date(2018, 6, 1, 12, 0, 0, 0, time.UTC)
	fixedAt = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
)

// fakeExplorer serves fixed transaction data and counts fetches.
type fakeExplorer struct {
	name  string
	tx    *explorer.TransactionData
	err   error
	calls atomic.Int32
}

func (f *fakeExplorer) Name() string { return f.name }

func (f *fakeExplorer) Fetch(context.Context, string, certificate.Chain) ([]byte, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []byte(`{}`), nil
}

func (f *fakeExplorer) Parse([]byte, certificate.Chain) (*explorer.TransactionData, error) {
	return f.tx, nil
}

func serving(remoteHash string) *fakeExplorer {
	return servingFrom(remoteHash, issuerAddress)
}

// servingFrom serves remoteHash as anchored by the given issuing address.
func servingFrom(remoteHash, address string) *fakeExplorer {
	return &fakeExplorer{
		name: "fake",
		tx:   explorer.NewTransactionData(remoteHash, address, txTime, nil),
	}
}

func failing(name string) *fakeExplorer {
	return &fakeExplorer{name: name, err: errors.New("connection refused")}
}

func testIssuer() *issuer.Issuer {
	return &issuer.Issuer{
		ID:   "https://issuer.example.org/profile.json",
		Name: "Example University",
		Keys: []issuer.Key{{
			ID:        issuer.KoblitzPrefix + issuerAddress,
			PublicKey: issuer.KoblitzPrefix + issuerAddress,
			Created:   time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC),
		}},
		Revoked: []issuer.RevokedAssertion{},
	}
}

func parse(t *testing.T, f certtest.Fixture) *certificate.Certificate {
	t.Helper()
	cert, err := certificate.Parse(f.JSON)
	require.NoError(t, err)
	return cert
}
