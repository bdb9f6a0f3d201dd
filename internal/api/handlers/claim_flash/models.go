package claim_flash

import (
	"fmt"
	"time"

	"github.com/needleworks/INK-BookingService/internal/domain"
	claimUC "github.com/needleworks/INK-BookingService/internal/usecase/claim_flash"
	"github.com/needleworks/INK-BookingService/pkg/types"
)

// ClaimFlashRequest HTTP request model
type ClaimFlashRequest struct {
	SizeID    int64  `json:"sizeId"`
	BookID    int64  `json:"bookId"`
	Date      string `json:"date"` // "2026-03-14"
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ToUseCaseRequest конвертирует HTTP request в модель usecase
func (r *ClaimFlashRequest) ToUseCaseRequest(pieceID, requesterID int64) (*claimUC.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", r.Date)
	}

	return &claimUC.Request{
		RequesterID: requesterID,
		PieceID:     pieceID,
		SizeID:      r.SizeID,
		BookID:      r.BookID,
		Date:        date,
		StartTime:   types.TimeString(r.StartTime),
		EndTime:     types.TimeString(r.EndTime),
	}, nil
}
