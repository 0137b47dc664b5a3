// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package explorer

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/btcsuite/btcd/txscript"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/certificate"
)

// Explorer names of the built-in Bitcoin providers.
const (
	BlockstreamName = "blockstream"
	BlockCypherName = "blockcypher"
)

// opReturnData extracts the data push following OP_RETURN in a hex encoded script.
func opReturnData(scriptHex string) ([]byte, bool) {
	script, err := hex.DecodeString(scriptHex)
	if err != nil || len(script) == 0 {
		return nil, false
	}

	tok := txscript.MakeScriptTokenizer(0, script)
	if !tok.Next() || tok.Opcode() != txscript.OP_RETURN {
		return nil, false
	}
	if !tok.Next() {
		return nil, false
	}
	data := tok.Data()
	return data, len(data) > 0
}

// blockstream queries an Esplora REST API: the transaction and its outspends.
type blockstream struct {
	base string
	http *HTTPConfig
}

// NewBlockstream returns an [Explorer] backed by the Esplora API at baseURL,
// e.g. https://blockstream.info/api.
func NewBlockstream(baseURL string, httpCfg *HTTPConfig) Explorer {
	return &blockstream{base: strings.TrimRight(baseURL, "/"), http: httpCfg}
}

func (b *blockstream) Name() string { return BlockstreamName }

func (b *blockstream) Fetch(ctx context.Context, txID string, _ certificate.Chain) ([]byte, error) {
	txURL := b.base + "/tx/" + url.PathEscape(txID)
	tx, err := b.http.Get(ctx, txURL)
	if err != nil {
		return nil, err
	}
	outspends, err := b.http.Get(ctx, txURL+"/outspends")
	if err != nil {
		return nil, err
	}
	return json.Marshal(esploraEnvelope{Tx: tx, Outspends: outspends})
}

func (b *blockstream) Parse(raw []byte, chain certificate.Chain) (*TransactionData, error) {
	return ParseBlockstream(raw, chain)
}

type esploraEnvelope struct {
	Tx        json.RawMessage `json:"tx"`
	Outspends json.RawMessage `json:"outspends,omitempty"`
}

type esploraTx struct {
	TxID string `json:"txid"`
	Vin  []struct {
		Prevout *struct {
			Address string `json:"scriptpubkey_address"`
		} `json:"prevout"`
	} `json:"vin"`
	Vout []struct {
		ScriptPubKey string `json:"scriptpubkey"`
		Address      string `json:"scriptpubkey_address"`
	} `json:"vout"`
	Status struct {
		Confirmed bool  `json:"confirmed"`
		BlockTime int64 `json:"block_time"`
	} `json:"status"`
}

type esploraOutspend struct {
	Spent bool `json:"spent"`
}

// ParseBlockstream parses an Esplora transaction. raw is either the bare
// /tx/{id} document or the envelope produced by the built-in explorer,
// which adds the /outspends list used to derive revoked addresses.
func ParseBlockstream(raw []byte, _ certificate.Chain) (*TransactionData, error) {
	var env esploraEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Tx) == 0 {
		env = esploraEnvelope{Tx: raw}
	}

	var tx esploraTx
	if err := json.Unmarshal(env.Tx, &tx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if !tx.Status.Confirmed {
		return nil, ErrUnconfirmed
	}

	var remote []byte
	for _, out := range tx.Vout {
		if data, ok := opReturnData(out.ScriptPubKey); ok {
			remote = data
			break
		}
	}
	if remote == nil {
		return nil, ErrNoAnchoredHash
	}

	var issuing string
	if len(tx.Vin) > 0 && tx.Vin[0].Prevout != nil {
		issuing = tx.Vin[0].Prevout.Address
	}

	var revoked []string
	if len(env.Outspends) > 0 {
		var outspends []esploraOutspend
		if err := json.Unmarshal(env.Outspends, &outspends); err != nil {
			return nil, fmt.Errorf("%w: outspends: %w", ErrMalformedResponse, err)
		}
		for i, out := range tx.Vout {
			if i < len(outspends) && outspends[i].Spent && out.Address != "" {
				revoked = append(revoked, out.Address)
			}
		}
	}

	return NewTransactionData(hex.EncodeToString(remote), issuing, time.Unix(tx.Status.BlockTime, 0), revoked), nil
}

// blockcypher queries the BlockCypher transaction endpoint.
type blockcypher struct {
	base string
	http *HTTPConfig
}

// NewBlockCypher returns an [Explorer] backed by the BlockCypher API at baseURL,
// e.g. https://api.blockcypher.com/v1/btc/main.
func NewBlockCypher(baseURL string, httpCfg *HTTPConfig) Explorer {
	return &blockcypher{base: strings.TrimRight(baseURL, "/"), http: httpCfg}
}

func (b *blockcypher) Name() string { return BlockCypherName }

func (b *blockcypher) Fetch(ctx context.Context, txID string, _ certificate.Chain) ([]byte, error) {
	return b.http.Get(ctx, b.base+"/txs/"+url.PathEscape(txID)+"?limit=500")
}

func (b *blockcypher) Parse(raw []byte, chain certificate.Chain) (*TransactionData, error) {
	return ParseBlockCypher(raw, chain)
}

type blockcypherTx struct {
	Confirmations int    `json:"confirmations"`
	Confirmed     string `json:"confirmed"`
	Inputs        []struct {
		Addresses []string `json:"addresses"`
	} `json:"inputs"`
	Outputs []struct {
		Script    string   `json:"script"`
		Addresses []string `json:"addresses"`
		SpentBy   string   `json:"spent_by"`
	} `json:"outputs"`
}

// ParseBlockCypher parses a BlockCypher transaction document. Outputs that
// have been spent mark their addresses as revoked.
func ParseBlockCypher(raw []byte, _ certificate.Chain) (*TransactionData, error) {
	var tx blockcypherTx
	if err := json.Unmarshal(raw, &tx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if tx.Confirmations < 1 || tx.Confirmed == "" {
		return nil, ErrUnconfirmed
	}

	confirmed, err := time.Parse(time.RFC3339, tx.Confirmed)
	if err != nil {
		return nil, fmt.Errorf("%w: confirmed time: %w", ErrMalformedResponse, err)
	}

	var remote []byte
	var revoked []string
	for _, out := range tx.Outputs {
		if remote == nil {
			if data, ok := opReturnData(out.Script); ok {
				remote = data
				continue
			}
		}
		if out.SpentBy != "" {
			revoked = append(revoked, out.Addresses...)
		}
	}
	if remote == nil {
		return nil, ErrNoAnchoredHash
	}

	var issuing string
	if len(tx.Inputs) > 0 && len(tx.Inputs[0].Addresses) > 0 {
		issuing = tx.Inputs[0].Addresses[0]
	}

	return NewTransactionData(hex.EncodeToString(remote), issuing, confirmed, revoked), nil
}
