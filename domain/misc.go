package domain

import "strings"

// Network names a Solana cluster the api is configured for
type Network string

const (
	NetworkDevnet      Network = "devnet"
	NetworkTestnet     Network = "testnet"
	NetworkMainnetBeta Network = "mainnet-beta"
)

func (n Network) String() string {
	return string(n)
}

// Address is a base58 encoded Solana public key. Unlike hex addresses it is case sensitive.
type Address string

func (a Address) String() string {
	return string(a)
}

func (a Address) IsEmpty() bool {
	return len(strings.TrimSpace(string(a))) == 0
}
