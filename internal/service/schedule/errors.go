package schedule

import "errors"

var (
	// ErrBookNotFound возвращается, когда книга записи не найдена
	ErrBookNotFound = errors.New("book not found")

	// ErrBlockNotFound возвращается, когда занятый интервал не найден
	ErrBlockNotFound = errors.New("time block not found")

	// ErrBlockNotManual возвращается при попытке удалить блок записи
	// напрямую: такие блоки освобождаются только отменой заявки
	ErrBlockNotManual = errors.New("time block is not a manual block")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
