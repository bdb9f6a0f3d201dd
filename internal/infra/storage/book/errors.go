package book

import "errors"

var (
	// ErrBookNotFound возвращается, когда книга записи не найдена
	ErrBookNotFound = errors.New("book.repository: book not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("book.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("book.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("book.repository: failed to scan row")
)
