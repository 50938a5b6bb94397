package domain

import "errors"

// Errores de dominio (sin dependencias externas). Cada operación del libro de
// movimientos devuelve uno de estos valores estables; la capa HTTP los traduce
// a código + mensaje sin reinterpretarlos.
var (
	// Validación: se rechazan antes de cualquier escritura.
	ErrEmptyLines            = errors.New("el movimiento no tiene líneas")
	ErrInvalidQuantity       = errors.New("cantidad inválida")
	ErrSameOriginDestination = errors.New("origen y destino deben ser distintos")
	ErrUnknownLocation       = errors.New("ubicación desconocida")
	ErrMissingReason         = errors.New("la cancelación requiere un motivo")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")

	// Reglas de negocio: se detectan dentro de la transacción y abortan completo.
	ErrInvalidState     = errors.New("transición no permitida desde un estado terminal")
	ErrAlreadyConfirmed = errors.New("el movimiento ya fue confirmado o cancelado")

	// Recursos.
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Concurrencia: conflicto de transacción tras agotar reintentos.
	ErrConcurrentModification = errors.New("modificación concurrente, reintente")

	// Autorización y búsqueda.
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
)
