package get_flash_piece

import (
	"context"

	"github.com/needleworks/INK-BookingService/internal/service/flash/models"
)

type FlashService interface {
	GetByID(ctx context.Context, id int64) (*models.FlashPieceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
