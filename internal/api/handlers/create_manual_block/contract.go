package create_manual_block

import (
	"context"

	"github.com/needleworks/INK-BookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	CreateManualBlock(ctx context.Context, req *models.CreateManualBlockRequest) (*models.TimeBlockResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
