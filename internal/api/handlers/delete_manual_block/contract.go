package delete_manual_block

import "context"

type ScheduleService interface {
	DeleteManualBlock(ctx context.Context, bookID, blockID int64, date string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
