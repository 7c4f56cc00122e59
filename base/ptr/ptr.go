package ptr

import "github.com/shopspring/decimal"

// String return a pointer to the input value
func String(value string) *string {
	return &value
}

// Int return a pointer to the input value
func Int(value int) *int {
	return &value
}

// Decimal return a pointer to the input value
func Decimal(value decimal.Decimal) *decimal.Decimal {
	return &value
}
