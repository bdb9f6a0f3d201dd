package claim_flash

import (
	"context"

	claimUC "github.com/needleworks/INK-BookingService/internal/usecase/claim_flash"
)

type ClaimFlashUseCase interface {
	Execute(ctx context.Context, req *claimUC.Request) (*claimUC.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
