// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package certificate

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Family groups chains that share transaction formats and explorers.
type Family string

const (
	FamilyBitcoin  Family = "bitcoin"
	FamilyEthereum Family = "ethereum"
	FamilyMock     Family = "mock"
)

// TransactionIDPlaceholder is replaced by the transaction id in link and service URL templates.
const TransactionIDPlaceholder = "{transaction_id}"

// Chain identifies a blockchain and network.
type Chain struct {
	// Code is the short identifier used in configuration, e.g. "bitcoin" or "ethropst".
	Code string `json:"code"`
	// Name is the blockchain name, e.g. "Bitcoin".
	Name string `json:"name"`
	// Network is the network name, e.g. "mainnet" or "ropsten".
	Network string `json:"network"`
	// Family selects transaction parsers and default explorers.
	Family Family `json:"family"`
	// SignatureValue is the Chainpoint anchor chain value, e.g. "bitcoinMainnet".
	SignatureValue string `json:"signatureValue"`
	// Blink is the BLINK prefix, e.g. "blink:btc:mainnet".
	Blink string `json:"blink"`

	transactionTemplate    string
	rawTransactionTemplate string
}

var (
	Bitcoin = Chain{
		Code: "bitcoin", Name: "Bitcoin", Network: "mainnet", Family: FamilyBitcoin,
		SignatureValue: "bitcoinMainnet", Blink: "blink:btc:mainnet",
		transactionTemplate:    "https://blockstream.info/tx/" + TransactionIDPlaceholder,
		rawTransactionTemplate: "https://blockstream.info/api/tx/" + TransactionIDPlaceholder + "/hex",
	}
	BitcoinTestnet = Chain{
		Code: "testnet", Name: "Bitcoin", Network: "testnet", Family: FamilyBitcoin,
		SignatureValue: "bitcoinTestnet", Blink: "blink:btc:testnet",
		transactionTemplate:    "https://blockstream.info/testnet/tx/" + TransactionIDPlaceholder,
		rawTransactionTemplate: "https://blockstream.info/testnet/api/tx/" + TransactionIDPlaceholder + "/hex",
	}
	BitcoinRegtest = Chain{
		Code: "regtest", Name: "Bitcoin", Network: "regtest", Family: FamilyMock,
		SignatureValue: "bitcoinRegtest", Blink: "blink:btc:regtest",
	}
	EthereumMainnet = Chain{
		Code: "ethmain", Name: "Ethereum", Network: "mainnet", Family: FamilyEthereum,
		SignatureValue: "ethereumMainnet", Blink: "blink:eth:mainnet",
		transactionTemplate:    "https://etherscan.io/tx/" + TransactionIDPlaceholder,
		rawTransactionTemplate: "https://etherscan.io/getRawTx?tx=" + TransactionIDPlaceholder,
	}
	EthereumRopsten = Chain{
		Code: "ethropst", Name: "Ethereum", Network: "ropsten", Family: FamilyEthereum,
		SignatureValue: "ethereumRopsten", Blink: "blink:eth:ropsten",
		transactionTemplate:    "https://ropsten.etherscan.io/tx/" + TransactionIDPlaceholder,
		rawTransactionTemplate: "https://ropsten.etherscan.io/getRawTx?tx=" + TransactionIDPlaceholder,
	}
	EthereumRinkeby = Chain{
		Code: "ethrinkeby", Name: "Ethereum", Network: "rinkeby", Family: FamilyEthereum,
		SignatureValue: "ethereumRinkeby", Blink: "blink:eth:rinkeby",
		transactionTemplate:    "https://rinkeby.etherscan.io/tx/" + TransactionIDPlaceholder,
		rawTransactionTemplate: "https://rinkeby.etherscan.io/getRawTx?tx=" + TransactionIDPlaceholder,
	}
	EthereumGoerli = Chain{
		Code: "ethgoerli", Name: "Ethereum", Network: "goerli", Family: FamilyEthereum,
		SignatureValue: "ethereumGoerli", Blink: "blink:eth:goerli",
		transactionTemplate:    "https://goerli.etherscan.io/tx/" + TransactionIDPlaceholder,
		rawTransactionTemplate: "https://goerli.etherscan.io/getRawTx?tx=" + TransactionIDPlaceholder,
	}
	EthereumSepolia = Chain{
		Code: "ethsepolia", Name: "Ethereum", Network: "sepolia", Family: FamilyEthereum,
		SignatureValue: "ethereumSepolia", Blink: "blink:eth:sepolia",
		transactionTemplate:    "https://sepolia.etherscan.io/tx/" + TransactionIDPlaceholder,
		rawTransactionTemplate: "https://sepolia.etherscan.io/getRawTx?tx=" + TransactionIDPlaceholder,
	}
	Mocknet = Chain{
		Code: "mocknet", Name: "Mocknet", Network: "mocknet", Family: FamilyMock,
		SignatureValue: "mockchain", Blink: "blink:mocknet",
	}
)

// Chains lists every known chain.
var Chains = []Chain{
	Bitcoin, BitcoinTestnet, BitcoinRegtest,
	EthereumMainnet, EthereumRopsten, EthereumRinkeby, EthereumGoerli, EthereumSepolia,
	Mocknet,
}

// ChainByCode looks a chain up by its short code.
func ChainByCode(code string) (Chain, bool) {
	for _, c := range Chains {
		if strings.EqualFold(c.Code, code) {
			return c, true
		}
	}
	return Chain{}, false
}

// ChainBySignatureValue looks a chain up by its Chainpoint anchor value.
func ChainBySignatureValue(value string) (Chain, bool) {
	for _, c := range Chains {
		if strings.EqualFold(c.SignatureValue, value) {
			return c, true
		}
	}
	return Chain{}, false
}

// ParseBlink splits a BLINK anchor ("blink:eth:ropsten:0xabc") into its chain and transaction id.
func ParseBlink(anchor string) (Chain, string, bool) {
	for _, c := range Chains {
		prefix := c.Blink + ":"
		if strings.HasPrefix(anchor, prefix) {
			return c, strings.TrimPrefix(anchor, prefix), true
		}
	}
	return Chain{}, "", false
}

// IsMock reports whether the chain has no public explorer, so anchoring
// checks that need on-chain data are skipped.
func (c Chain) IsMock() bool { return c.Family == FamilyMock }

// IsZero reports whether c is the zero Chain.
func (c Chain) IsZero() bool { return c.Code == "" }

// DisplayName returns a human readable chain name such as "Ethereum Ropsten".
func (c Chain) DisplayName() string {
	if c.Network == "" || strings.EqualFold(c.Name, c.Network) {
		return c.Name
	}
	return c.Name + " " + cases.Title(language.English).String(c.Network)
}

// TransactionLink returns a block explorer link to txID, or "" when the chain has none.
func (c Chain) TransactionLink(txID string) string {
	return expandTemplate(c.transactionTemplate, txID)
}

// RawTransactionLink returns a link to the raw transaction, or "" when the chain has none.
func (c Chain) RawTransactionLink(txID string) string {
	return expandTemplate(c.rawTransactionTemplate, txID)
}

func expandTemplate(template, txID string) string {
	if template == "" || txID == "" {
		return ""
	}
	return strings.ReplaceAll(template, TransactionIDPlaceholder, txID)
}
