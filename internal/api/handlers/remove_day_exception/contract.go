package remove_day_exception

import "context"

type ScheduleService interface {
	RemoveException(ctx context.Context, bookID int64, date string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
