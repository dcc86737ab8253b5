package create_reservation

import "errors"

var (
	// ErrValidationFailed возвращается, когда заявка не прошла проверку.
	// Подробности в Response.Validation.
	ErrValidationFailed = errors.New("create_reservation: validation failed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
