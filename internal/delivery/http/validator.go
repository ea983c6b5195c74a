package http

import (
	"fmt"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding rules used by request structs.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("techstack", func(fl validator.FieldLevel) bool {
		return domain.ValidTechStack(fl.Field().String())
	})
}
