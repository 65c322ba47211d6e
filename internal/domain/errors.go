package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	// ErrNotFound cubre tanto recurso inexistente como recurso de otro tenant,
	// para no filtrar existencia de datos ajenos.
	ErrNotFound           = errors.New("recurso no encontrado o no autorizado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// Errores del subsistema de sincronización e-commerce.
	ErrInvalidSignature     = errors.New("firma de webhook inválida")
	ErrUnknownStore         = errors.New("tienda no vinculada a ninguna integración")
	ErrUpstreamFailure      = errors.New("fallo en la plataforma externa")
	ErrAuthenticationFailed = errors.New("verificación de autenticidad fallida")
)
