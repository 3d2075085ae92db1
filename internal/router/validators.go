package router

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/mediconnect/clinic-api/internal/model"
)

// registerValidators hooks domain validation tags into gin's binding
// engine so malformed requests are rejected before they reach a service.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("hospitaltype", func(fl validator.FieldLevel) bool {
		return model.HospitalType(fl.Field().String()).Valid()
	})
}
