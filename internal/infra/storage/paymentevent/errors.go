package paymentevent

import "errors"

var (
	// ErrDuplicateEvent возвращается при попытке записать уже обработанный event_id
	ErrDuplicateEvent = errors.New("paymentevent.repository: event already processed")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("paymentevent.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("paymentevent.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("paymentevent.repository: failed to scan row")
)
