package apply_payment_event

import (
	"context"

	paymentUC "github.com/needleworks/INK-BookingService/internal/usecase/apply_payment_event"
)

type ApplyPaymentEventUseCase interface {
	Execute(ctx context.Context, req *paymentUC.Request) (*paymentUC.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
