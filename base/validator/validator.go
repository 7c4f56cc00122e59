package validator

import (
	"github.com/gagliardetto/solana-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// IsValidAddress reports whether address is a base58 encoded 32 byte Solana public key
func IsValidAddress(address string) bool {
	_, err := solana.PublicKeyFromBase58(address)
	return err == nil
}

func NewCustomValidator(v *validator.Validate) echo.Validator {
	// `validate:"solanaAddress"` on request fields
	_ = v.RegisterValidation("solanaAddress", func(fl validator.FieldLevel) bool {
		return IsValidAddress(fl.Field().String())
	})
	return &CustomValidator{v}
}

type CustomValidator struct {
	validator *validator.Validate
}

func (v *CustomValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}
