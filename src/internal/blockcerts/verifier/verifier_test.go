// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package verifier_test

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/canon"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/certificate"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/certificate/certtest"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/explorer"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/hashutil"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/issuer"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/signature"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/verifier"
)

func run(t *testing.T, cert *certificate.Certificate, opts verifier.Options) *verifier.Result {
	t.Helper()
	if opts.Now == nil {
		opts.Now = fixedAt
	}
	v, err := verifier.New(cert, opts)
	require.NoError(t, err)
	res, err := v.Verify(context.Background())
	require.NoError(t, err)
	return res
}

func failedSteps(res *verifier.Result) []verifier.StepID {
	var out []verifier.StepID
	for _, s := range res.Steps {
		if s.Status == verifier.StatusFailure {
			out = append(out, s.Step)
		}
	}
	return out
}

func TestVerifyV2BitcoinMainnet(t *testing.T) {
	f := certtest.Must(certtest.V2(certtest.Options{BatchSize: 4, Index: 2}))

	t.Run("matching remote hash", func(t *testing.T) {
		res := run(t, parse(t, f), verifier.Options{
			Issuer:    testIssuer(),
			Explorers: []explorer.Explorer{serving(f.MerkleRoot)},
		})

		assert.Equal(t, verifier.StatusSuccess, res.Status)
		assert.Empty(t, failedSteps(res))
		assert.False(t, res.Steps.IsFailing())
		assert.Equal(t, "This is a valid Bitcoin Mainnet certificate.", res.Message)
		assert.Equal(t, []verifier.StepID{
			verifier.ComputeLocalHash,
			verifier.CompareHashes,
			verifier.CheckMerkleRoot,
			verifier.FetchRemoteHash,
			verifier.CompareRemoteHash,
			verifier.CheckAuthenticity,
			verifier.CheckRevokedStatus,
			verifier.CheckExpiresDate,
		}, res.Steps.Steps())
		assert.Empty(t, res.FailedStep)
		assert.NoError(t, res.Err())
		assert.NotEmpty(t, res.RunID)
		assert.Contains(t, res.TransactionLink, "blockstream.info/tx/")
	})

	t.Run("different remote hash", func(t *testing.T) {
		res := run(t, parse(t, f), verifier.Options{
			Issuer:    testIssuer(),
			Explorers: []explorer.Explorer{serving(hashutil.SHA256Hex([]byte("something else")))},
		})

		assert.Equal(t, verifier.StatusFailure, res.Status)
		assert.Equal(t, []verifier.StepID{verifier.CompareRemoteHash}, failedSteps(res))
		assert.Equal(t, verifier.CompareRemoteHash, res.FailedStep)
		assert.ErrorIs(t, res.Cause, verifier.ErrHashMismatch)
		assert.True(t, verifier.IsKind(res.Cause, verifier.KindHashMismatch))
		assert.Equal(t, "This certificate is not valid.", res.Message)
	})

	t.Run("remote hash compared case insensitively", func(t *testing.T) {
		res := run(t, parse(t, f), verifier.Options{
			Issuer:    testIssuer(),
			Explorers: []explorer.Explorer{serving(strings.ToUpper(f.MerkleRoot))},
		})
		assert.Equal(t, verifier.StatusSuccess, res.Status)
	})
}

func TestVerifyExplorerFallback(t *testing.T) {
	f := certtest.Must(certtest.V2(certtest.Options{BatchSize: 2}))

	var aCalls, cCalls atomic.Int32
	a := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		aCalls.Add(1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer a.Close()
	c := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cCalls.Add(1)
		fmt.Fprint(w, `{}`)
	}))
	defer c.Close()

	b := serving(f.MerkleRoot)
	b.name = "B"
	parseAny := func([]byte, certificate.Chain) (*explorer.TransactionData, error) {
		return explorer.NewTransactionData(f.MerkleRoot, issuerAddress, txTime, nil), nil
	}

	v, err := verifier.New(parse(t, f), verifier.Options{
		Issuer:    testIssuer(),
		Explorers: []explorer.Explorer{b},
		ExplorerAPIs: []explorer.ExplorerAPI{
			{Name: "C", ServiceURL: c.URL + "/tx", Priority: explorer.PriorityAfterDefaults, Parse: parseAny},
			{Name: "A", ServiceURL: a.URL + "/tx/{transaction_id}", Priority: explorer.PriorityBeforeDefaults, Parse: parseAny},
		},
		Now: fixedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, v.Explorers())

	res, err := v.Verify(context.Background())
	require.NoError(t, err)

	assert.Equal(t, verifier.StatusSuccess, res.Status)
	assert.Equal(t, int32(1), aCalls.Load())
	assert.Equal(t, int32(1), b.calls.Load())
	assert.Equal(t, int32(0), cCalls.Load())
}

func TestVerifyTransactionNotFound(t *testing.T) {
	f := certtest.Must(certtest.V2(certtest.Options{BatchSize: 2}))
	a, b := failing("a"), failing("b")

	res := run(t, parse(t, f), verifier.Options{
		Issuer:    testIssuer(),
		Explorers: []explorer.Explorer{a, b},
	})

	assert.Equal(t, verifier.StatusFailure, res.Status)
	assert.Equal(t, []verifier.StepID{
		verifier.FetchRemoteHash,
		verifier.CompareRemoteHash,
		verifier.CheckAuthenticity,
	}, failedSteps(res))
	assert.Equal(t, verifier.FetchRemoteHash, res.FailedStep)
	assert.ErrorIs(t, res.Cause, verifier.ErrTransactionNotFound)

	var notFound *explorer.TransactionNotFoundError
	require.ErrorAs(t, res.Cause, &notFound)
	assert.Len(t, notFound.Failures, 2)

	compare, ok := res.Steps.Status(verifier.CompareRemoteHash)
	require.True(t, ok)
	assert.ErrorIs(t, compare.Err, verifier.ErrMissingPrerequisite)
	assert.True(t, verifier.IsKind(compare.Err, verifier.KindMissingPrerequisite))
}

func TestVerifyTamperedMerklePath(t *testing.T) {
	f := certtest.Must(certtest.V2(certtest.Options{BatchSize: 5, Index: 3}))
	require.NotEmpty(t, f.Path)

	for i := range f.Path {
		for _, pos := range []int{0, 63} {
			t.Run(fmt.Sprintf("entry %d char %d", i, pos), func(t *testing.T) {
				data := certtest.Tamper(f, func(doc map[string]any) {
					proof := doc["signature"].(map[string]any)["proof"].([]any)
					entry := proof[i].(map[string]any)
					for dir, h := range entry {
						entry[dir] = flipHex(h.(string), pos)
					}
				})
				cert, err := certificate.Parse(data)
				require.NoError(t, err)

				res := run(t, cert, verifier.Options{
					Issuer:    testIssuer(),
					Explorers: []explorer.Explorer{serving(f.MerkleRoot)},
				})
				assert.Equal(t, []verifier.StepID{verifier.CheckMerkleRoot}, failedSteps(res))
				assert.ErrorIs(t, res.Cause, verifier.ErrMerkleProof)
			})
		}
	}
}

func flipHex(h string, pos int) string {
	b := []byte(h)
	if b[pos] == '0' {
		b[pos] = '1'
	} else {
		b[pos] = '0'
	}
	return string(b)
}

func TestVerifyTamperedDocument(t *testing.T) {
	f := certtest.Must(certtest.V2(certtest.Options{BatchSize: 3}))
	data := certtest.Tamper(f, func(doc map[string]any) {
		doc["recipientProfile"].(map[string]any)["name"] = "Charles Babbage"
	})
	cert, err := certificate.Parse(data)
	require.NoError(t, err)

	res := run(t, cert, verifier.Options{
		Issuer:    testIssuer(),
		Explorers: []explorer.Explorer{serving(f.MerkleRoot)},
	})
	assert.Equal(t, []verifier.StepID{verifier.CompareHashes}, failedSteps(res))
}

func TestVerifySingleHashAnchoring(t *testing.T) {
	f := certtest.Must(certtest.V2(certtest.Options{}))
	require.Empty(t, f.Path)
	forged := strings.Repeat("ab", 32)

	tests := []struct {
		name       string
		edit       func(doc map[string]any)
		remoteHash string
		wantFailed []verifier.StepID
	}{
		{
			name:       "root equals the target hash",
			remoteHash: f.TargetHash,
		},
		{
			name: "declared root differs from the target hash",
			edit: func(doc map[string]any) {
				doc["signature"].(map[string]any)["merkleRoot"] = forged
			},
			remoteHash: forged,
			wantFailed: []verifier.StepID{verifier.CheckMerkleRoot, verifier.CompareRemoteHash},
		},
		{
			name: "declared root differs only in case",
			edit: func(doc map[string]any) {
				doc["signature"].(map[string]any)["merkleRoot"] = strings.ToUpper(f.TargetHash)
			},
			remoteHash: f.TargetHash,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := f.JSON
			if tt.edit != nil {
				data = certtest.Tamper(f, tt.edit)
			}
			cert, err := certificate.Parse(data)
			require.NoError(t, err)

			res := run(t, cert, verifier.Options{
				Issuer:    testIssuer(),
				Explorers: []explorer.Explorer{serving(tt.remoteHash)},
			})
			assert.Equal(t, tt.wantFailed, failedSteps(res))
			if tt.wantFailed == nil {
				assert.Equal(t, verifier.StatusSuccess, res.Status, "%v", res.Cause)
				return
			}
			assert.Equal(t, verifier.StatusFailure, res.Status)
			assert.ErrorIs(t, res.Cause, verifier.ErrMerkleProof)
		})
	}
}

func TestVerifyRevoked(t *testing.T) {
	f := certtest.Must(certtest.V2(certtest.Options{}))
	cert := parse(t, f)

	iss := testIssuer()
	iss.Revoked = []issuer.RevokedAssertion{{ID: cert.ID, Reason: "Issued in error"}}

	res := run(t, cert, verifier.Options{
		Issuer:    iss,
		Explorers: []explorer.Explorer{serving(f.TargetHash)},
	})
	assert.Equal(t, verifier.StatusFailure, res.Status)
	assert.Equal(t, []verifier.StepID{verifier.CheckRevokedStatus}, failedSteps(res))
	assert.ErrorIs(t, res.Cause, verifier.ErrRevoked)
	assert.Contains(t, res.Cause.Error(), "Issued in error")
}

func TestVerifyRevokedOnChain(t *testing.T) {
	f := certtest.Must(certtest.V1_2(certtest.Options{RevocationKey: "1RevocationAddr"}))
	cert := parse(t, f)

	ex := &fakeExplorer{
		name: "fake",
		tx:   explorer.NewTransactionData(f.TargetHash, issuerAddress, txTime, []string{"1RevocationAddr"}),
	}
	res := run(t, cert, verifier.Options{Issuer: testIssuer(), Explorers: []explorer.Explorer{ex}})
	assert.Equal(t, []verifier.StepID{verifier.CheckRevokedStatus}, failedSteps(res))
}

func TestVerifyRevokedByCertificateID(t *testing.T) {
	f := certtest.Must(certtest.V1_2(certtest.Options{RevocationKey: "1RevocationAddr"}))
	cert := parse(t, f)
	require.NotEqual(t, cert.RevocationKey, cert.ID)

	tests := []struct {
		name    string
		revoked string
	}{
		{name: "revocation key", revoked: "1RevocationAddr"},
		{name: "certificate id", revoked: cert.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iss := testIssuer()
			iss.Revoked = []issuer.RevokedAssertion{{ID: tt.revoked}}

			res := run(t, cert, verifier.Options{Issuer: iss, Explorers: []explorer.Explorer{serving(f.TargetHash)}})
			assert.Equal(t, []verifier.StepID{verifier.CheckRevokedStatus}, failedSteps(res))
			assert.ErrorIs(t, res.Cause, verifier.ErrRevoked)
			assert.Contains(t, res.Cause.Error(), tt.revoked)
		})
	}
}

func TestVerifyRevocationListUnavailable(t *testing.T) {
	f := certtest.Must(certtest.V2(certtest.Options{}))
	listErr := errors.New("unexpected status 404")

	iss := testIssuer()
	iss.Revoked = nil
	iss.RevocationListURL = "https://issuer.example.org/revocation-list.json"
	iss.RevocationErr = listErr

	res := run(t, parse(t, f), verifier.Options{Issuer: iss, Explorers: []explorer.Explorer{serving(f.TargetHash)}})
	assert.Equal(t, verifier.StatusFailure, res.Status)
	assert.Equal(t, []verifier.StepID{verifier.CheckRevokedStatus}, failedSteps(res))
	assert.ErrorIs(t, res.Cause, verifier.ErrMissingPrerequisite)
	assert.ErrorIs(t, res.Cause, listErr)
	assert.True(t, verifier.IsKind(res.Cause, verifier.KindMissingPrerequisite))
	assert.Contains(t, res.Cause.Error(), iss.RevocationListURL)
}

func TestVerifyExpiry(t *testing.T) {
	tests := []struct {
		name    string
		expires string
		wantErr bool
	}{
		{name: "no expiry", expires: ""},
		{name: "future timestamp", expires: "2030-01-01T00:00:00Z"},
		{name: "future date", expires: "2030-01-01"},
		{name: "past timestamp", expires: "2020-01-01T00:00:00Z", wantErr: true},
		{name: "past date", expires: "2019-05-04", wantErr: true},
		{name: "unparseable", expires: "next tuesday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := certtest.Must(certtest.V2(certtest.Options{Expires: tt.expires}))
			res := run(t, parse(t, f), verifier.Options{
				Issuer:    testIssuer(),
				Explorers: []explorer.Explorer{serving(f.TargetHash)},
			})
			if tt.wantErr {
				assert.Equal(t, []verifier.StepID{verifier.CheckExpiresDate}, failedSteps(res))
				assert.ErrorIs(t, res.Cause, verifier.ErrExpired)
				return
			}
			assert.Equal(t, verifier.StatusSuccess, res.Status)
		})
	}
}

func TestVerifyAuthenticity(t *testing.T) {
	f := certtest.Must(certtest.V2(certtest.Options{}))

	t.Run("unknown issuing address", func(t *testing.T) {
		ex := &fakeExplorer{name: "fake", tx: explorer.NewTransactionData(f.TargetHash, "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2", txTime, nil)}
		res := run(t, parse(t, f), verifier.Options{Issuer: testIssuer(), Explorers: []explorer.Explorer{ex}})
		assert.Equal(t, []verifier.StepID{verifier.CheckAuthenticity}, failedSteps(res))
		assert.ErrorIs(t, res.Cause, verifier.ErrAuthenticity)
		assert.ErrorIs(t, res.Cause, issuer.ErrUnknownKey)
	})

	t.Run("key revoked before transaction", func(t *testing.T) {
		iss := testIssuer()
		iss.Keys[0].Revoked = txTime.Add(-time.Hour)
		res := run(t, parse(t, f), verifier.Options{Issuer: iss, Explorers: []explorer.Explorer{serving(f.TargetHash)}})
		assert.Equal(t, []verifier.StepID{verifier.CheckAuthenticity}, failedSteps(res))
		assert.ErrorIs(t, res.Cause, issuer.ErrKeyNotValid)
	})

	t.Run("no issuer", func(t *testing.T) {
		res := run(t, parse(t, f), verifier.Options{Explorers: []explorer.Explorer{serving(f.TargetHash)}})
		assert.Equal(t, []verifier.StepID{verifier.CheckAuthenticity}, failedSteps(res))
		assert.ErrorIs(t, res.Cause, verifier.ErrMissingPrerequisite)
	})
}

func TestVerifyCanonicalizationAborts(t *testing.T) {
	f := certtest.Must(certtest.V2(certtest.Options{}))
	ex := serving(f.TargetHash)

	v, err := verifier.New(parse(t, f), verifier.Options{
		Issuer:    testIssuer(),
		Explorers: []explorer.Explorer{ex},
		Canonicalizer: canon.Func(func(map[string]any) ([]byte, error) {
			return nil, errors.New("unsupported @context")
		}),
	})
	require.NoError(t, err)

	res, err := v.Verify(context.Background())
	assert.ErrorIs(t, err, verifier.ErrCanonicalization)
	assert.True(t, verifier.IsKind(err, verifier.KindCanonicalization))
	require.NotNil(t, res)
	assert.Equal(t, verifier.StatusFailure, res.Status)
	assert.Equal(t, []verifier.StepID{verifier.ComputeLocalHash}, res.Steps.Steps())
	assert.Equal(t, int32(0), ex.calls.Load(), "no network step after canonicalization failure")
}

func TestVerifyOnce(t *testing.T) {
	f := certtest.Must(certtest.V2(certtest.Options{}))
	v, err := verifier.New(parse(t, f), verifier.Options{
		Issuer:    testIssuer(),
		Explorers: []explorer.Explorer{serving(f.TargetHash)},
	})
	require.NoError(t, err)

	_, err = v.Verify(context.Background())
	require.NoError(t, err)
	_, err = v.Verify(context.Background())
	assert.ErrorIs(t, err, verifier.ErrAlreadyVerified)
}

func TestVerifyProgress(t *testing.T) {
	f := certtest.Must(certtest.V2(certtest.Options{BatchSize: 2}))

	var seen []verifier.StepStatus
	var sizes []int
	res := run(t, parse(t, f), verifier.Options{
		Issuer:    testIssuer(),
		Explorers: []explorer.Explorer{serving(f.MerkleRoot)},
		Progress: func(latest verifier.StepStatus, log verifier.StepLog) {
			seen = append(seen, latest)
			sizes = append(sizes, len(log))
			// mutating the snapshot must not affect the verifier
			log[0].Status = verifier.StatusFailure
		},
	})

	require.Len(t, seen, len(res.Steps))
	for i, s := range seen {
		assert.Equal(t, res.Steps[i].Step, s.Step)
		assert.Equal(t, s.Step.Action(), s.Action)
		assert.Equal(t, i+1, sizes[i])
	}
	assert.Equal(t, verifier.StatusSuccess, res.Status)

	t.Run("panicking callback", func(t *testing.T) {
		res := run(t, parse(t, f), verifier.Options{
			Issuer:    testIssuer(),
			Explorers: []explorer.Explorer{serving(f.MerkleRoot)},
			Progress:  func(verifier.StepStatus, verifier.StepLog) { panic("boom") },
		})
		assert.Equal(t, verifier.StatusSuccess, res.Status)
	})
}

func TestVerifyMocknet(t *testing.T) {
	f := certtest.Must(certtest.V2(certtest.Options{Chain: certificate.Mocknet, BatchSize: 2}))
	cert := parse(t, f)
	require.True(t, cert.Chain.IsMock())

	res := run(t, cert, verifier.Options{Issuer: testIssuer()})
	assert.Equal(t, verifier.StatusSuccess, res.Status)
	assert.Equal(t, verifier.MockSuccessMessage, res.Message)
	assert.NotContains(t, res.Steps.Steps(), verifier.FetchRemoteHash)
	assert.NotContains(t, res.Steps.Steps(), verifier.CheckAuthenticity)
}

func TestVerifyV1_1SignedMessage(t *testing.T) {
	key, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	address, err := signature.AddressFromPublicKey(key.PubKey(), true, &chaincfg.MainNetParams)
	require.NoError(t, err)

	const id = "urn:uuid:6a1b9d9e-5b2c-4d7a-9f3e-1c2b3a4d5e6f"
	sig, err := signature.SignBitcoinMessage(key, id, true)
	require.NoError(t, err)

	iss := &issuer.Issuer{Keys: []issuer.Key{{ID: address, PublicKey: address}}}

	t.Run("valid signature", func(t *testing.T) {
		f := certtest.Must(certtest.V1_1(certtest.Options{ID: id, IssuerSignature: sig}))
		res := run(t, parse(t, f), verifier.Options{
			Issuer:    iss,
			Explorers: []explorer.Explorer{serving(f.TargetHash)},
		})
		assert.Equal(t, []verifier.StepID{
			verifier.ComputeLocalHash,
			verifier.FetchRemoteHash,
			verifier.CompareRemoteHash,
			verifier.CheckIssuerSignature,
			verifier.CheckRevokedStatus,
			verifier.CheckExpiresDate,
		}, res.Steps.Steps())
		assert.Equal(t, verifier.StatusSuccess, res.Status, "%v", res.Cause)
	})

	t.Run("signature over another id", func(t *testing.T) {
		f := certtest.Must(certtest.V1_1(certtest.Options{IssuerSignature: sig}))
		res := run(t, parse(t, f), verifier.Options{
			Issuer:    iss,
			Explorers: []explorer.Explorer{serving(f.TargetHash)},
		})
		assert.Equal(t, []verifier.StepID{verifier.CheckIssuerSignature}, failedSteps(res))
		assert.ErrorIs(t, res.Cause, verifier.ErrSignature)
	})
}

func TestVerifyV3ProofSignature(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	const method = "did:example:issuer#key-1"
	iss := &issuer.Issuer{Keys: []issuer.Key{
		{
			ID:        method,
			Type:      signature.TypeEd25519,
			PublicKey: "z" + base58.Encode(pub),
		},
		{
			ID:        "did:example:issuer#eth",
			PublicKey: "eip155:3:" + ethIssuerAddress,
		},
	}}

	opts := certtest.Options{Chain: certificate.EthereumRopsten, TransactionID: "0x" + strings.Repeat("ab", 32), BatchSize: 2}
	unsigned := certtest.Must(certtest.V3(opts, false))
	target, err := hashutil.Decode(unsigned.TargetHash)
	require.NoError(t, err)

	build := func(sig []byte) *certificate.Certificate {
		o := opts
		o.VerificationMethod = method
		o.SignatureValue = "z" + base58.Encode(sig)
		return parse(t, certtest.Must(certtest.V3(o, false)))
	}

	t.Run("valid signature", func(t *testing.T) {
		cert := build(ed25519.Sign(priv, target))
		steps, err := verifier.ResolveSteps(cert.Version, cert.Chain, cert.Receipt)
		require.NoError(t, err)
		assert.Contains(t, steps, verifier.CheckIssuerSignature)
		assert.Contains(t, steps, verifier.CheckReceipt)

		res := run(t, cert, verifier.Options{
			Issuer:    iss,
			Explorers: []explorer.Explorer{servingFrom(unsigned.MerkleRoot, ethIssuerAddress)},
		})
		assert.Equal(t, verifier.StatusSuccess, res.Status, "%v", res.Cause)
		assert.Equal(t, "This is a valid Ethereum Ropsten credential.", res.Message)
	})

	t.Run("signature by another key", func(t *testing.T) {
		_, other, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		res := run(t, build(ed25519.Sign(other, target)), verifier.Options{
			Issuer:    iss,
			Explorers: []explorer.Explorer{servingFrom(unsigned.MerkleRoot, ethIssuerAddress)},
		})
		assert.Equal(t, []verifier.StepID{verifier.CheckIssuerSignature}, failedSteps(res))
		assert.ErrorIs(t, res.Cause, signature.ErrSignatureMismatch)
	})

	t.Run("unsigned proof skips the signature step", func(t *testing.T) {
		res := run(t, parse(t, unsigned), verifier.Options{
			Issuer:    iss,
			Explorers: []explorer.Explorer{servingFrom(unsigned.MerkleRoot, "0x"+strings.ToUpper(ethIssuerAddress[2:]))},
		})
		assert.NotContains(t, res.Steps.Steps(), verifier.CheckIssuerSignature)
		assert.Contains(t, res.Steps.Steps(), verifier.CheckAuthenticity)
		assert.Equal(t, verifier.StatusSuccess, res.Status, "%v", res.Cause)
	})

	t.Run("unsigned proof anchored by an unknown address", func(t *testing.T) {
		res := run(t, parse(t, unsigned), verifier.Options{
			Issuer:    iss,
			Explorers: []explorer.Explorer{servingFrom(unsigned.MerkleRoot, "0x000000000000000000000000000000000000dEaD")},
		})
		assert.Equal(t, verifier.StatusFailure, res.Status)
		assert.Equal(t, []verifier.StepID{verifier.CheckAuthenticity}, failedSteps(res))
		assert.ErrorIs(t, res.Cause, issuer.ErrUnknownKey)
	})

	t.Run("unsigned proof without an issuer profile", func(t *testing.T) {
		res := run(t, parse(t, unsigned), verifier.Options{
			Explorers: []explorer.Explorer{servingFrom(unsigned.MerkleRoot, "0x000000000000000000000000000000000000dEaD")},
		})
		assert.Equal(t, verifier.StatusFailure, res.Status)
		assert.Equal(t, []verifier.StepID{verifier.CheckAuthenticity}, failedSteps(res))
		assert.ErrorIs(t, res.Cause, verifier.ErrMissingPrerequisite)
	})
}

func TestNew(t *testing.T) {
	f := certtest.Must(certtest.V2(certtest.Options{}))

	tests := []struct {
		name    string
		cert    func() *certificate.Certificate
		opts    verifier.Options
		wantErr error
	}{
		{
			name:    "nil certificate",
			cert:    func() *certificate.Certificate { return nil },
			wantErr: verifier.ErrMissingField,
		},
		{
			name: "unsupported version",
			cert: func() *certificate.Certificate {
				c := parse(t, f)
				c.Version = "4.0"
				return c
			},
			wantErr: verifier.ErrUnsupportedVersion,
		},
		{
			name: "missing transaction id",
			cert: func() *certificate.Certificate {
				c := parse(t, f)
				c.TransactionID = ""
				return c
			},
			wantErr: verifier.ErrMissingField,
		},
		{
			name: "missing receipt",
			cert: func() *certificate.Certificate {
				c := parse(t, f)
				c.Receipt = nil
				return c
			},
			wantErr: verifier.ErrMissingField,
		},
		{
			name: "invalid explorer priority",
			cert: func() *certificate.Certificate { return parse(t, f) },
			opts: verifier.Options{ExplorerAPIs: []explorer.ExplorerAPI{{
				ServiceURL: "https://explorer.example.org/tx",
				Priority:   2,
				Parse:      explorer.ParseBlockstream,
			}}},
			wantErr: verifier.ErrInvalidPriority,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.New(tt.cert(), tt.opts)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("from JSON with default explorers", func(t *testing.T) {
		v, err := verifier.NewFromJSON(f.JSON, verifier.Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{explorer.BlockstreamName, explorer.BlockCypherName}, v.Explorers())
		assert.NotEmpty(t, v.RunID())
		assert.NotEmpty(t, v.Steps())
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := verifier.NewFromJSON([]byte(`[]`), verifier.Options{})
		assert.ErrorIs(t, err, certificate.ErrInvalidDocument)
	})
}
