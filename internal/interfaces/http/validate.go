package http

import (
	"github.com/go-playground/validator/v10"
)

// validate instancia compartida del validador de structs para los request DTOs.
var validate = validator.New()

// validationMessage arma un mensaje legible con el primer campo inválido.
func validationMessage(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return "campo inválido: " + errs[0].Field() + " (" + errs[0].Tag() + ")"
	}
	return "datos inválidos"
}
