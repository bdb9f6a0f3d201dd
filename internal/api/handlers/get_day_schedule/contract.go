package get_day_schedule

import (
	"context"

	"github.com/needleworks/INK-BookingService/internal/service/schedule/models"
)

type ScheduleService interface {
	GetDaySchedule(ctx context.Context, bookID int64, date string) (*models.DayScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
