package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Ciclo de vida NCR.
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
	ErrInvalidState       = errors.New("operación inválida para el estado actual")
	ErrEvidenceRequired   = errors.New("se requiere evidencia de corrección para cerrar")
	ErrCreditNoteRequired = errors.New("se requiere nota crédito para cerrar")

	// Hilo de comentarios.
	ErrMissingAuthor = errors.New("el comentario requiere autor (usuario o magic link)")
	ErrEmptyContent  = errors.New("el comentario requiere contenido, adjuntos o nota de voz")

	// Magic links.
	ErrInvalidLink = errors.New("magic link inválido")
	ErrLinkExpired = errors.New("magic link expirado")
)
