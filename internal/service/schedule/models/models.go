package models

import (
	"errors"
	"time"

	"github.com/needleworks/INK-BookingService/internal/domain"
	"github.com/needleworks/INK-BookingService/pkg/types"
)

var (
	// ErrInvalidWeekday возвращается при неизвестном дне недели
	ErrInvalidWeekday = errors.New("invalid weekday")
)

// weekdayNames имена дней недели в API
var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// Request модели

// DayHoursPayload рабочие часы одного дня недели
type DayHoursPayload struct {
	Open  string `json:"open"`  // "10:00"
	Close string `json:"close"` // "19:00"
}

// CreateBookRequest запрос на создание книги записи
type CreateBookRequest struct {
	Name          string                     `json:"name"`
	Type          string                     `json:"type"` // custom | flash
	OpensOn       *string                    `json:"opensOn,omitempty"`
	ClosesOn      *string                    `json:"closesOn,omitempty"`
	DepositAmount float64                    `json:"depositAmount"`
	Hours         map[string]DayHoursPayload `json:"hours"` // Ключ - имя дня недели
}

// UpdateBookRequest запрос на обновление книги записи
type UpdateBookRequest struct {
	BookID        int64                      `json:"bookId"`
	Name          string                     `json:"name"`
	Active        bool                       `json:"active"`
	OpensOn       *string                    `json:"opensOn,omitempty"`
	ClosesOn      *string                    `json:"closesOn,omitempty"`
	DepositAmount float64                    `json:"depositAmount"`
	Hours         map[string]DayHoursPayload `json:"hours"`
}

// SetExceptionRequest запрос на переопределение расписания даты
type SetExceptionRequest struct {
	BookID    int64   `json:"bookId"`
	Date      string  `json:"date"` // "2026-03-14"
	Closed    bool    `json:"closed"`
	OpenTime  *string `json:"openTime,omitempty"`
	CloseTime *string `json:"closeTime,omitempty"`
}

// CreateManualBlockRequest запрос на ручной блок в расписании
type CreateManualBlockRequest struct {
	BookID      int64  `json:"bookId"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description,omitempty"`
}

// ToDomainHours конвертирует карту часов по именам дней в domain
func ToDomainHours(payload map[string]DayHoursPayload) (map[time.Weekday]domain.DayHours, error) {
	hours := make(map[time.Weekday]domain.DayHours, len(payload))
	for name, day := range payload {
		weekday, ok := weekdayNames[name]
		if !ok {
			return nil, ErrInvalidWeekday
		}
		open := types.TimeString(day.Open)
		if err := open.Validate(); err != nil {
			return nil, err
		}
		closeTime := types.TimeString(day.Close)
		if err := closeTime.Validate(); err != nil {
			return nil, err
		}
		if !open.IsBefore(closeTime) {
			return nil, errors.New("open time must be before close time")
		}
		hours[weekday] = domain.DayHours{Open: open, Close: closeTime}
	}
	return hours, nil
}

// Response модели

// BookResponse ответ с данными книги записи
type BookResponse struct {
	ID            int64                      `json:"id"`
	Name          string                     `json:"name"`
	Type          string                     `json:"type"`
	Active        bool                       `json:"active"`
	OpensOn       *string                    `json:"opensOn,omitempty"`
	ClosesOn      *string                    `json:"closesOn,omitempty"`
	DepositAmount float64                    `json:"depositAmount"`
	Hours         map[string]DayHoursPayload `json:"hours"`
}

// BookListResponse ответ со списком книг записи
type BookListResponse struct {
	Books []*BookResponse `json:"books"`
	Total int             `json:"total"`
}

// ExceptionResponse ответ с исключением расписания
type ExceptionResponse struct {
	ID        int64   `json:"id"`
	BookID    int64   `json:"bookId"`
	Date      string  `json:"date"`
	Closed    bool    `json:"closed"`
	OpenTime  *string `json:"openTime,omitempty"`
	CloseTime *string `json:"closeTime,omitempty"`
}

// ExceptionListResponse ответ со списком исключений
type ExceptionListResponse struct {
	Exceptions []*ExceptionResponse `json:"exceptions"`
	Total      int                  `json:"total"`
}

// TimeBlockResponse ответ с занятым интервалом
type TimeBlockResponse struct {
	ID        int64  `json:"id"`
	BookID    int64  `json:"bookId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Type      string `json:"type"`
	BookingID *int64 `json:"bookingId,omitempty"`
}

// DayScheduleResponse ответ с блоками на дату
type DayScheduleResponse struct {
	BookID int64                `json:"bookId"`
	Date   string               `json:"date"`
	Blocks []*TimeBlockResponse `json:"blocks"`
}

// FromDomainBook конвертирует domain книгу в response
func FromDomainBook(b *domain.Book) *BookResponse {
	resp := &BookResponse{
		ID:            b.ID,
		Name:          b.Name,
		Type:          string(b.Type),
		Active:        b.Active,
		DepositAmount: b.DepositAmount,
		Hours:         make(map[string]DayHoursPayload, len(b.Hours)),
	}

	if b.OpensOn != nil {
		opens := b.OpensOn.Format(domain.DateFormat)
		resp.OpensOn = &opens
	}
	if b.ClosesOn != nil {
		closes := b.ClosesOn.Format(domain.DateFormat)
		resp.ClosesOn = &closes
	}

	for name, weekday := range weekdayNames {
		if hours, ok := b.Hours[weekday]; ok {
			resp.Hours[name] = DayHoursPayload{
				Open:  hours.Open.String(),
				Close: hours.Close.String(),
			}
		}
	}

	return resp
}

// FromDomainException конвертирует domain исключение в response
func FromDomainException(e *domain.DayException) *ExceptionResponse {
	resp := &ExceptionResponse{
		ID:     e.ID,
		BookID: e.BookID,
		Date:   e.Date.Format(domain.DateFormat),
		Closed: e.Closed,
	}
	if e.OpenTime != nil {
		open := e.OpenTime.String()
		resp.OpenTime = &open
	}
	if e.CloseTime != nil {
		closeTime := e.CloseTime.String()
		resp.CloseTime = &closeTime
	}
	return resp
}

// FromDomainBlock конвертирует domain блок в response
func FromDomainBlock(b *domain.TimeBlock) *TimeBlockResponse {
	return &TimeBlockResponse{
		ID:        b.ID,
		BookID:    b.BookID,
		Date:      b.Date.Format(domain.DateFormat),
		StartTime: b.StartTime.String(),
		EndTime:   b.EndTime.String(),
		Type:      string(b.Type),
		BookingID: b.BookingID,
	}
}
