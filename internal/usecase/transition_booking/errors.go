package transition_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("transition_booking: invalid input data")

	// ErrBookingNotFound возвращается, когда заявка не найдена
	ErrBookingNotFound = errors.New("transition_booking: booking not found")

	// ErrIllegalTransition возвращается для пары (статус, цель),
	// отсутствующей в таблице переходов
	ErrIllegalTransition = errors.New("transition_booking: illegal status transition")

	// ErrAccessDenied возвращается, когда клиент пытается изменить
	// чужую заявку или выполнить переход, закреплённый за другой ролью
	ErrAccessDenied = errors.New("transition_booking: access denied")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("transition_booking: internal error")
)
