package services

import "errors"

// Common service errors
var (
	ErrNotFound      = errors.New("enregistrement introuvable")
	ErrInvalidState  = errors.New("transition d'état invalide")
	ErrDuplicate     = errors.New("enregistrement dupliqué")
	ErrExportAborted = errors.New("export interrompu")
)
