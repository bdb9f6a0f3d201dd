package apply_payment_event

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("apply_payment_event: invalid input data")

	// ErrBookingNotFound возвращается, когда событие ссылается
	// на несуществующую заявку
	ErrBookingNotFound = errors.New("apply_payment_event: booking not found")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("apply_payment_event: internal error")
)
