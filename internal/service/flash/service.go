package flash

import (
	"context"
	"errors"
	"fmt"

	flashRepo "github.com/needleworks/INK-BookingService/internal/infra/storage/flash"
	"github.com/needleworks/INK-BookingService/internal/service/flash/models"
)

// Service сервис каталога flash-дизайнов (только чтение)
// Бронирование дизайна идёт через отдельный usecase с атомарным claim
type Service struct {
	flashRepo FlashRepository
	logger    Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(flashRepo FlashRepository, logger Logger) *Service {
	return &Service{
		flashRepo: flashRepo,
		logger:    logger,
	}
}

// GetByID получает flash-дизайн по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.FlashPieceResponse, error) {
	piece, err := s.flashRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, flashRepo.ErrPieceNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrPieceNotFound, id)
		}
		s.logger.Error("GetByID: repository error for piece id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPiece(piece), nil
}

// List возвращает каталог дизайнов
// availableOnly скрывает забронированные и снятые с публикации
func (s *Service) List(ctx context.Context, availableOnly bool) (*models.FlashPieceListResponse, error) {
	pieces, err := s.flashRepo.List(ctx, availableOnly)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := &models.FlashPieceListResponse{
		Pieces: make([]*models.FlashPieceResponse, 0, len(pieces)),
		Total:  len(pieces),
	}
	for _, p := range pieces {
		resp.Pieces = append(resp.Pieces, models.FromDomainPiece(p))
	}
	return resp, nil
}
