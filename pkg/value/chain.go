// Copyright 2025 ChainCodec Authors
//
// Package value defines the chain-agnostic value algebra: chain
// identifiers, the normalized value sum type, and the raw/decoded event
// containers every decoder in chaincodec produces and consumes.
package value

import "fmt"

// ChainFamily identifies the broad class of chain a decoder targets.
// Decode logic branches on family, not on the specific chain, since the
// wire encoding (ABI vs Borsh vs ABCI attributes) is a family-level
// property.
type ChainFamily string

const (
	ChainFamilyEVM    ChainFamily = "evm"
	ChainFamilySolana ChainFamily = "solana"
	ChainFamilyCosmos ChainFamily = "cosmos"
	ChainFamilyCustom ChainFamily = "custom"
)

// IsValid reports whether f is one of the known families.
func (f ChainFamily) IsValid() bool {
	switch f {
	case ChainFamilyEVM, ChainFamilySolana, ChainFamilyCosmos, ChainFamilyCustom:
		return true
	default:
		return false
	}
}

// ChainId identifies a specific chain within a family. Exactly one of
// the family-specific fields is meaningful, selected by Family.
type ChainId struct {
	Family ChainFamily

	// EVMChainID is the numeric chain id (e.g. 1 for Ethereum mainnet).
	EVMChainID uint64

	// SolanaNetwork is the network name (e.g. "mainnet-beta", "devnet").
	SolanaNetwork string

	// CosmosPrefix is the bech32 human-readable address prefix (e.g. "osmo").
	CosmosPrefix string
	// CosmosChainName is the chain-registry name (e.g. "osmosis-1").
	CosmosChainName string

	// CustomName names a Family-Custom chain not otherwise modeled.
	CustomName string
}

func (c ChainId) String() string {
	switch c.Family {
	case ChainFamilyEVM:
		return fmt.Sprintf("evm:%d", c.EVMChainID)
	case ChainFamilySolana:
		return fmt.Sprintf("solana:%s", c.SolanaNetwork)
	case ChainFamilyCosmos:
		return fmt.Sprintf("cosmos:%s/%s", c.CosmosPrefix, c.CosmosChainName)
	default:
		return fmt.Sprintf("custom:%s", c.CustomName)
	}
}

// chainSlugs is the fixed slug-to-ChainId routing table for well-known
// chains. Slugs not in this table are still valid as arbitrary
// user-defined slugs; callers may register them directly against the
// schema registry and decoder dispatch table without needing an entry
// here.
var chainSlugs = map[string]ChainId{
	"ethereum":       {Family: ChainFamilyEVM, EVMChainID: 1},
	"arbitrum":       {Family: ChainFamilyEVM, EVMChainID: 42161},
	"base":           {Family: ChainFamilyEVM, EVMChainID: 8453},
	"polygon":        {Family: ChainFamilyEVM, EVMChainID: 137},
	"optimism":       {Family: ChainFamilyEVM, EVMChainID: 10},
	"avalanche":      {Family: ChainFamilyEVM, EVMChainID: 43114},
	"bsc":            {Family: ChainFamilyEVM, EVMChainID: 56},
	"solana-mainnet": {Family: ChainFamilySolana, SolanaNetwork: "mainnet-beta"},
	"cosmos":         {Family: ChainFamilyCosmos, CosmosPrefix: "cosmos", CosmosChainName: "cosmoshub"},
	"osmosis":        {Family: ChainFamilyCosmos, CosmosPrefix: "osmo", CosmosChainName: "osmosis"},
}

// LookupSlug resolves a fixed chain slug to its ChainId. The second
// return value is false for slugs outside the fixed registry; callers
// should treat those as valid user-defined slugs with Family ChainFamilyCustom,
// not as errors.
func LookupSlug(slug string) (ChainId, bool) {
	id, ok := chainSlugs[slug]
	return id, ok
}

// KnownSlugs returns the fixed chain slugs, for diagnostics and tests.
func KnownSlugs() []string {
	slugs := make([]string, 0, len(chainSlugs))
	for s := range chainSlugs {
		slugs = append(slugs, s)
	}
	return slugs
}
