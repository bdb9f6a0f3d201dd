package get_availability_range

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/needleworks/INK-BookingService/internal/domain"
	availabilityUC "github.com/needleworks/INK-BookingService/internal/usecase/get_available_slots"
)

type stubAvailability struct {
	// openDates даты (YYYY-MM-DD), на которые возвращается один слот
	openDates map[string]bool
	err       error
	calls     []time.Time
}

func (s *stubAvailability) Execute(_ context.Context, req *availabilityUC.Request) (*availabilityUC.Response, error) {
	s.calls = append(s.calls, req.Date)
	if s.err != nil {
		return nil, s.err
	}
	resp := &availabilityUC.Response{BookID: req.BookID, Date: req.Date}
	if s.openDates[req.Date.Format(domain.DateFormat)] {
		resp.Slots = []domain.Slot{{StartTime: "10:00", EndTime: "12:00", DurationMinutes: 120}}
	}
	return resp, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func day(s string) time.Time {
	d, _ := time.Parse(domain.DateFormat, s)
	return d
}

func TestExecute_ProjectsEachDayToBoolean(t *testing.T) {
	availability := &stubAvailability{openDates: map[string]bool{
		"2026-03-16": true,
		"2026-03-18": true,
	}}
	uc := NewUseCase(availability, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		BookID:          1,
		StartDate:       day("2026-03-16"),
		EndDate:         day("2026-03-19"),
		DurationMinutes: 120,
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]bool{
		"2026-03-16": true,
		"2026-03-17": false,
		"2026-03-18": true,
		"2026-03-19": false,
	}, resp.Days)
	assert.Len(t, availability.calls, 4)
}

func TestExecute_SingleDayRange(t *testing.T) {
	availability := &stubAvailability{openDates: map[string]bool{"2026-03-16": true}}
	uc := NewUseCase(availability, noopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		BookID:          1,
		StartDate:       day("2026-03-16"),
		EndDate:         day("2026-03-16"),
		DurationMinutes: 60,
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"2026-03-16": true}, resp.Days)
}

func TestExecute_BookNotFound(t *testing.T) {
	availability := &stubAvailability{err: availabilityUC.ErrBookNotFound}
	uc := NewUseCase(availability, noopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		BookID:          404,
		StartDate:       day("2026-03-16"),
		EndDate:         day("2026-03-17"),
		DurationMinutes: 60,
	})

	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "zero book id",
			req:     &Request{StartDate: day("2026-03-16"), EndDate: day("2026-03-17"), DurationMinutes: 60},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "end before start",
			req:     &Request{BookID: 1, StartDate: day("2026-03-17"), EndDate: day("2026-03-16"), DurationMinutes: 60},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "zero duration",
			req:     &Request{BookID: 1, StartDate: day("2026-03-16"), EndDate: day("2026-03-17")},
			wantErr: ErrInvalidInput,
		},
		{
			name: "range wider than limit",
			req: &Request{
				BookID:          1,
				StartDate:       day("2026-03-01"),
				EndDate:         day("2026-03-01").AddDate(0, 0, domain.MaxRangeQueryDays),
				DurationMinutes: 60,
			},
			wantErr: ErrRangeTooWide,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			availability := &stubAvailability{}
			uc := NewUseCase(availability, noopLogger{})

			_, err := uc.Execute(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, availability.calls)
		})
	}
}
