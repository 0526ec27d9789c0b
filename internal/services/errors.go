package services

import "errors"

// Common service errors
var (
	ErrNotFound     = errors.New("registro no encontrado")
	ErrInvalidInput = errors.New("datos de entrada inválidos")
)
