package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/needleworks/INK-BookingService/internal/domain"
)

func TestFromDomainBooking_AvailableActions(t *testing.T) {
	tests := []struct {
		status        domain.BookingStatus
		wantEditable  bool
		wantCanCancel bool
	}{
		{status: domain.StatusPending, wantEditable: true, wantCanCancel: true},
		{status: domain.StatusInfoRequested, wantEditable: true, wantCanCancel: true},
		{status: domain.StatusConfirmed, wantEditable: false, wantCanCancel: true},
		{status: domain.StatusCompleted, wantEditable: false, wantCanCancel: false},
		{status: domain.StatusDeclined, wantEditable: false, wantCanCancel: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			resp := FromDomainBooking(&domain.Booking{
				ID:          12,
				RequesterID: 9,
				Type:        domain.BookingTypeCustom,
				Status:      tt.status,
				Description: "Рукав с пионами",
			})

			assert.Equal(t, tt.wantEditable, resp.Editable)
			assert.Equal(t, tt.wantCanCancel, resp.CanCancel)
		})
	}
}
