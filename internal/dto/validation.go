package dto

import (
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the ledger-specific tags on gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return registerOn(v)
}

func registerOn(v *validator.Validate) error {
	if err := v.RegisterValidation("journalcode", func(fl validator.FieldLevel) bool {
		return domain.JournalCode(fl.Field().String()).IsValid()
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("accountclass", func(fl validator.FieldLevel) bool {
		return domain.AccountClass(fl.Field().Int()).IsValid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("tiertype", func(fl validator.FieldLevel) bool {
		return domain.TierType(fl.Field().String()).IsValid()
	})
}
