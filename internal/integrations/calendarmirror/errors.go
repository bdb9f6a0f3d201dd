package calendarmirror

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("calendarmirror client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе зеркала
	ErrInvalidResponse = errors.New("calendarmirror client: invalid response")
)
