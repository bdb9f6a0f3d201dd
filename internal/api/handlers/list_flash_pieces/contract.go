package list_flash_pieces

import (
	"context"

	"github.com/needleworks/INK-BookingService/internal/service/flash/models"
)

type FlashService interface {
	List(ctx context.Context, availableOnly bool) (*models.FlashPieceListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
