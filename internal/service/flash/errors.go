package flash

import "errors"

var (
	// ErrPieceNotFound возвращается, когда flash-дизайн не найден
	ErrPieceNotFound = errors.New("flash piece not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
