package get_available_slots

import "errors"

var (
	// ErrBookNotFound возвращается, когда книга записи не найдена
	ErrBookNotFound = errors.New("get_available_slots: book not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
