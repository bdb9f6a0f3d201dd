package get_availability_range

import (
	"context"

	rangeUC "github.com/needleworks/INK-BookingService/internal/usecase/get_availability_range"
)

type AvailabilityRangeUseCase interface {
	Execute(ctx context.Context, req *rangeUC.Request) (*rangeUC.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
