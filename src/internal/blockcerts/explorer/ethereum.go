// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package explorer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/certificate"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/hashutil"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/helper/jsonrpc"
)

// Explorer names of the built-in Ethereum providers.
const (
	EtherscanName = "etherscan"
	JSONRPCName   = "jsonrpc"
)

// ethEnvelope pairs a transaction with the block that includes it.
type ethEnvelope struct {
	Transaction json.RawMessage `json:"transaction"`
	Block       json.RawMessage `json:"block,omitempty"`
}

type ethTransaction struct {
	Hash        string  `json:"hash"`
	BlockNumber *string `json:"blockNumber"`
	From        string  `json:"from"`
	Input       string  `json:"input"`
}

type ethBlock struct {
	Timestamp string `json:"timestamp"`
}

// blockNumberOf returns the block number of a raw transaction, or "" while pending.
func blockNumberOf(rawTx json.RawMessage) (string, error) {
	var tx ethTransaction
	if err := json.Unmarshal(rawTx, &tx); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if tx.BlockNumber == nil {
		return "", nil
	}
	return *tx.BlockNumber, nil
}

// ParseEthereum parses the transaction/block envelope produced by the
// built-in Ethereum explorers. A bare transaction object is accepted too,
// in which case the transaction time is unknown.
func ParseEthereum(raw []byte, _ certificate.Chain) (*TransactionData, error) {
	var env ethEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Transaction) == 0 {
		env = ethEnvelope{Transaction: raw}
	}

	var tx ethTransaction
	if err := json.Unmarshal(env.Transaction, &tx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if tx.BlockNumber == nil || *tx.BlockNumber == "" {
		return nil, ErrUnconfirmed
	}
	if !common.IsHexAddress(tx.From) {
		return nil, fmt.Errorf("%w: invalid sender %q", ErrMalformedResponse, tx.From)
	}

	remote := hashutil.Normalize(tx.Input)
	if remote == "" {
		return nil, ErrNoAnchoredHash
	}
	if _, err := hashutil.Decode(remote); err != nil {
		return nil, fmt.Errorf("%w: input data: %w", ErrMalformedResponse, err)
	}

	var ts time.Time
	if len(env.Block) > 0 && string(env.Block) != "null" {
		var block ethBlock
		if err := json.Unmarshal(env.Block, &block); err != nil {
			return nil, fmt.Errorf("%w: block: %w", ErrMalformedResponse, err)
		}
		secs, err := hexutil.DecodeUint64(block.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("%w: block timestamp: %w", ErrMalformedResponse, err)
		}
		ts = time.Unix(int64(secs), 0)
	}

	return NewTransactionData(remote, common.HexToAddress(tx.From).Hex(), ts, nil), nil
}

// etherscan queries the Etherscan proxy module: the transaction, then its block.
type etherscan struct {
	base  string
	token string
	http  *HTTPConfig
}

// NewEtherscan returns an [Explorer] backed by the Etherscan API at baseURL,
// e.g. https://api.etherscan.io/api.
func NewEtherscan(baseURL, apiToken string, httpCfg *HTTPConfig) Explorer {
	return &etherscan{base: baseURL, token: apiToken, http: httpCfg}
}

func (e *etherscan) Name() string { return EtherscanName }

func (e *etherscan) proxyURL(params url.Values) string {
	params.Set("module", "proxy")
	if e.token != "" {
		params.Set("apikey", e.token)
	}
	sep := "?"
	if strings.Contains(e.base, "?") {
		sep = "&"
	}
	return e.base + sep + params.Encode()
}

// call issues one proxy request; Etherscan wraps node responses in a JSON-RPC envelope with id 1.
func (e *etherscan) call(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	params.Set("action", method)
	body, err := e.http.Get(ctx, e.proxyURL(params))
	if err != nil {
		return nil, err
	}

	var result json.RawMessage
	if err := jsonrpc.DecodeResponse(jsonrpc.NewRequest(1, method), body, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return result, nil
}

func (e *etherscan) Fetch(ctx context.Context, txID string, _ certificate.Chain) ([]byte, error) {
	tx, err := e.call(ctx, "eth_getTransactionByHash", url.Values{"txhash": {txID}})
	if err != nil {
		return nil, err
	}

	env := ethEnvelope{Transaction: tx}
	number, err := blockNumberOf(tx)
	if err != nil {
		return nil, err
	}
	if number != "" {
		block, err := e.call(ctx, "eth_getBlockByNumber", url.Values{"tag": {number}, "boolean": {"false"}})
		if err != nil {
			return nil, err
		}
		env.Block = block
	}
	return json.Marshal(env)
}

func (e *etherscan) Parse(raw []byte, chain certificate.Chain) (*TransactionData, error) {
	return ParseEthereum(raw, chain)
}

// rpcNode queries an Ethereum node over JSON-RPC.
type rpcNode struct {
	endpoint string
	http     *HTTPConfig
}

// NewJSONRPC returns an [Explorer] that asks the Ethereum node at endpoint
// with eth_getTransactionByHash and eth_getBlockByNumber.
func NewJSONRPC(endpoint string, httpCfg *HTTPConfig) Explorer {
	return &rpcNode{endpoint: endpoint, http: httpCfg}
}

func (n *rpcNode) Name() string { return JSONRPCName }

func (n *rpcNode) call(ctx context.Context, req jsonrpc.Request) (json.RawMessage, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	body, err := n.http.Do(ctx, http.MethodPost, n.endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var result json.RawMessage
	if err := jsonrpc.DecodeResponse(req, body, &result); err != nil {
		if errors.Is(err, jsonrpc.ErrNullResult) {
			return nil, fmt.Errorf("%s: %w", req.Method, ErrTransactionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", req.Method, err)
	}
	return result, nil
}

func (n *rpcNode) Fetch(ctx context.Context, txID string, _ certificate.Chain) ([]byte, error) {
	tx, err := n.call(ctx, jsonrpc.NewRequest(1, "eth_getTransactionByHash", txID))
	if err != nil {
		return nil, err
	}

	env := ethEnvelope{Transaction: tx}
	number, err := blockNumberOf(tx)
	if err != nil {
		return nil, err
	}
	if number != "" {
		block, err := n.call(ctx, jsonrpc.NewRequest(2, "eth_getBlockByNumber", number, false))
		if err != nil {
			return nil, err
		}
		env.Block = block
	}
	return json.Marshal(env)
}

func (n *rpcNode) Parse(raw []byte, chain certificate.Chain) (*TransactionData, error) {
	return ParseEthereum(raw, chain)
}
