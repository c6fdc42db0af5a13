package database

import "errors"

var (
	// ErrNotFound запись не существует
	ErrNotFound = errors.New("record not found")

	// ErrEmailTaken почта уже зарегистрирована
	ErrEmailTaken = errors.New("email already registered")

	// ErrNotAvailable объект снят с публикации
	ErrNotAvailable = errors.New("property is not available for booking")

	// ErrOwnProperty владелец пытается забронировать собственный объект
	ErrOwnProperty = errors.New("cannot book your own property")

	// ErrDuplicatePending у арендатора уже есть ожидающая заявка на этот объект
	ErrDuplicatePending = errors.New("pending booking already exists for this property")

	// ErrNotPending операция допустима только для заявок в статусе Pending
	ErrNotPending = errors.New("booking is not pending")

	// ErrSelfRating пользователь пытается оценить сам себя
	ErrSelfRating = errors.New("cannot rate yourself")
)
