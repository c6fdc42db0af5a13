package service

import "errors"

var (
	// ErrValidation ошибка входных данных, текст уходит клиенту
	ErrValidation = errors.New("validation failed")

	// ErrForbidden актор не имеет прав на операцию
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials неверная пара логин/пароль
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrRatingNotAllowed нет одобренной брони, оценка запрещена
	ErrRatingNotAllowed = errors.New("rating requires an approved booking")
)
