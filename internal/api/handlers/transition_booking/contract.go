package transition_booking

import (
	"context"

	transitionUC "github.com/needleworks/INK-BookingService/internal/usecase/transition_booking"
)

type TransitionUseCase interface {
	Execute(ctx context.Context, req *transitionUC.Request) (*transitionUC.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
