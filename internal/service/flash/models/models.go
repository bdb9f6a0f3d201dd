package models

import "github.com/needleworks/INK-BookingService/internal/domain"

// FlashSizeResponse вариант размера дизайна
type FlashSizeResponse struct {
	ID              int64   `json:"id"`
	Label           string  `json:"label"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
}

// FlashPieceResponse ответ с данными flash-дизайна
type FlashPieceResponse struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	Description *string             `json:"description,omitempty"`
	Repeatable  bool                `json:"repeatable"`
	Available   bool                `json:"available"`
	Sizes       []FlashSizeResponse `json:"sizes"`
}

// FlashPieceListResponse ответ со списком дизайнов
type FlashPieceListResponse struct {
	Pieces []*FlashPieceResponse `json:"pieces"`
	Total  int                   `json:"total"`
}

// FromDomainPiece конвертирует domain дизайн в response
// Внутренние поля claim наружу не отдаются, только вычисленная доступность
func FromDomainPiece(p *domain.FlashPiece) *FlashPieceResponse {
	resp := &FlashPieceResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Repeatable:  p.Repeatable,
		Available:   p.IsAvailable(),
		Sizes:       make([]FlashSizeResponse, 0, len(p.Sizes)),
	}
	for _, s := range p.Sizes {
		resp.Sizes = append(resp.Sizes, FlashSizeResponse{
			ID:              s.ID,
			Label:           s.Label,
			DurationMinutes: s.DurationMinutes,
			Price:           s.Price,
		})
	}
	return resp
}
