package get_availability_range

import (
	"context"

	availabilityUC "github.com/needleworks/INK-BookingService/internal/usecase/get_available_slots"
)

// AvailabilityUseCase интерфейс дневного вычисления доступности
// Range-запрос - булева проекция дневного: день доступен, если есть
// хотя бы один слот нужной длительности
type AvailabilityUseCase interface {
	Execute(ctx context.Context, req *availabilityUC.Request) (*availabilityUC.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
