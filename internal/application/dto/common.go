package dto

import "github.com/go-playground/validator/v10"

// validate instancia única del validador de structs para los DTOs de entrada.
var validate = validator.New()

// Validate valida un DTO de request contra sus tags `validate`.
func Validate(v any) error {
	return validate.Struct(v)
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple con mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}
