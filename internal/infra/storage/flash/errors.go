package flash

import "errors"

var (
	// ErrPieceNotFound возвращается, когда flash-дизайн не найден
	ErrPieceNotFound = errors.New("flash.repository: flash piece not found")

	// ErrAlreadyClaimed возвращается, когда claim не удалось поставить:
	// дизайн уже забронирован другой заявкой (или повторяемый и в claim
	// не нуждается)
	ErrAlreadyClaimed = errors.New("flash.repository: flash piece already claimed")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("flash.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("flash.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("flash.repository: failed to scan row")
)
