package get_availability_range

import "errors"

var (
	// ErrBookNotFound возвращается, когда книга записи не найдена
	ErrBookNotFound = errors.New("get_availability_range: book not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability_range: invalid input data")

	// ErrRangeTooWide возвращается, когда запрошенный период превышает лимит
	ErrRangeTooWide = errors.New("get_availability_range: date range is too wide")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability_range: internal error")
)
