// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package explorer

import (
	"strings"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/certificate"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/version"
)

// Config configures the built-in explorers.
type Config struct {
	HTTP *HTTPConfig

	// EtherscanToken is sent as the Etherscan apikey.
	EtherscanToken string
	// EthereumRPC, when set, adds a JSON-RPC node after Etherscan for Ethereum chains.
	EthereumRPC string

	// Base URL overrides, mainly for private deployments and tests.
	BlockstreamURL string
	BlockCypherURL string
	EtherscanURL   string
}

// NewConfig returns a Config with a default HTTP configuration.
func NewConfig() *Config {
	return &Config{HTTP: NewHTTPConfig(version.Version)}
}

var (
	blockstreamURLs = map[string]string{
		certificate.Bitcoin.Code:        "https://blockstream.info/api",
		certificate.BitcoinTestnet.Code: "https://blockstream.info/testnet/api",
	}
	blockcypherURLs = map[string]string{
		certificate.Bitcoin.Code:        "https://api.blockcypher.com/v1/btc/main",
		certificate.BitcoinTestnet.Code: "https://api.blockcypher.com/v1/btc/test3",
	}
	etherscanURLs = map[string]string{
		certificate.EthereumMainnet.Code: "https://api.etherscan.io/api",
		certificate.EthereumRopsten.Code: "https://api-ropsten.etherscan.io/api",
		certificate.EthereumRinkeby.Code: "https://api-rinkeby.etherscan.io/api",
		certificate.EthereumGoerli.Code:  "https://api-goerli.etherscan.io/api",
		certificate.EthereumSepolia.Code: "https://api-sepolia.etherscan.io/api",
	}
)

// Defaults returns the built-in explorers for chain in lookup order:
// Blockstream then BlockCypher for Bitcoin, Etherscan then the optional
// JSON-RPC node for Ethereum, and none for mock chains.
func Defaults(chain certificate.Chain, cfg *Config) []Explorer {
	if cfg == nil {
		cfg = NewConfig()
	}
	httpCfg := cfg.HTTP
	if httpCfg == nil {
		httpCfg = NewHTTPConfig(version.Version)
	}

	switch chain.Family {
	case certificate.FamilyBitcoin:
		var out []Explorer
		if u := pick(cfg.BlockstreamURL, blockstreamURLs[chain.Code]); u != "" {
			out = append(out, NewBlockstream(u, httpCfg))
		}
		if u := pick(cfg.BlockCypherURL, blockcypherURLs[chain.Code]); u != "" {
			out = append(out, NewBlockCypher(u, httpCfg))
		}
		return out
	case certificate.FamilyEthereum:
		var out []Explorer
		if u := pick(cfg.EtherscanURL, etherscanURLs[chain.Code]); u != "" {
			out = append(out, NewEtherscan(u, cfg.EtherscanToken, httpCfg))
		}
		if cfg.EthereumRPC != "" {
			out = append(out, NewJSONRPC(cfg.EthereumRPC, httpCfg))
		}
		return out
	default:
		return nil
	}
}

func pick(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

// parsers maps configuration names to the built-in parsing functions.
var parsers = map[string]ParsingFunc{
	BlockstreamName: ParseBlockstream,
	"esplora":       ParseBlockstream,
	BlockCypherName: ParseBlockCypher,
	EtherscanName:   ParseEthereum,
	"ethereum":      ParseEthereum,
}

// ParserByName returns the built-in parser registered under name.
func ParserByName(name string) (ParsingFunc, bool) {
	p, ok := parsers[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}
