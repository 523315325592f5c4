// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"papertrade/internal/dates"
)

// symbolRegex matches the upper-case exchange symbols used by price files.
var symbolRegex = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,19}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("trade_type", validateTradeType)
		_ = v.RegisterValidation("datestr", validateDateString)
		_ = v.RegisterValidation("symbol", validateSymbol)
	}
}

func validateTradeType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "BUY", "SELL":
		return true
	}
	return false
}

func validateDateString(fl validator.FieldLevel) bool {
	_, err := dates.Parse(fl.Field().String())
	return err == nil
}

func validateSymbol(fl validator.FieldLevel) bool {
	return symbolRegex.MatchString(fl.Field().String())
}
