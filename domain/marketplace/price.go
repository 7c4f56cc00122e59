package marketplace

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// LamportsPerSolExp is the decimal exponent between lamports and SOL
const LamportsPerSolExp = -9

// ParsePrice parses a decimal price string. ok is false for anything that is not a finite number.
func ParsePrice(price string) (d decimal.Decimal, ok bool) {
	price = strings.TrimSpace(price)
	if price == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// LamportsToSol renders a lamport amount as a SOL decimal string without going through a float
func LamportsToSol(lamports uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), LamportsPerSolExp).String()
}
