package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/myvoice-api/internal/domain/entity"
	"github.com/yourusername/myvoice-api/internal/domain/repository"
	apperrors "github.com/yourusername/myvoice-api/internal/pkg/errors"
)

const giftStatsCacheKey = "stats:gifts"

// GiftInput — поля создания подарка
type GiftInput struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Points        int     `json:"points"`
	Category      string  `json:"category"`
	Image         string  `json:"image"`
	Availability  string  `json:"availability"`
	OriginalPrice float64 `json:"original_price"`
	Discount      int     `json:"discount"`
}

// GiftUpdate описывает частичное обновление; nil-поля не меняются
type GiftUpdate struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Points        *int     `json:"points"`
	Category      *string  `json:"category"`
	Image         *string  `json:"image"`
	Availability  *string  `json:"availability"`
	OriginalPrice *float64 `json:"original_price"`
	Discount      *int     `json:"discount"`
}

// GiftService предоставляет методы для работы с каталогом подарков
type GiftService struct {
	giftRepo  repository.GiftRepository
	cacheRepo repository.CacheRepository
	statsTTL  time.Duration
}

// NewGiftService создает новый сервис подарков
func NewGiftService(giftRepo repository.GiftRepository, cacheRepo repository.CacheRepository) *GiftService {
	return &GiftService{
		giftRepo:  giftRepo,
		cacheRepo: cacheRepo,
		statsTTL:  time.Minute,
	}
}

// List возвращает подарки по фильтру
func (s *GiftService) List(filter repository.GiftFilter) ([]entity.Gift, error) {
	return s.giftRepo.List(filter)
}

// GetByID возвращает подарок по ID
func (s *GiftService) GetByID(id uint) (*entity.Gift, error) {
	return s.giftRepo.GetByID(id)
}

// Create создает новый подарок
func (s *GiftService) Create(input GiftInput) (*entity.Gift, error) {
	if strings.TrimSpace(input.Title) == "" ||
		strings.TrimSpace(input.Description) == "" ||
		strings.TrimSpace(input.Category) == "" ||
		strings.TrimSpace(input.Image) == "" {
		return nil, fmt.Errorf("%w: missing required fields", apperrors.ErrValidation)
	}
	if input.Points <= 0 {
		return nil, fmt.Errorf("%w: points must be greater than 0", apperrors.ErrValidation)
	}
	if input.Discount < 0 || input.Discount > 100 {
		return nil, fmt.Errorf("%w: discount must be between 0 and 100", apperrors.ErrValidation)
	}

	availability := input.Availability
	if availability == "" {
		availability = entity.GiftAvailable
	}

	gift := &entity.Gift{
		Title:         input.Title,
		Description:   input.Description,
		Points:        input.Points,
		Category:      input.Category,
		Image:         input.Image,
		Availability:  availability,
		OriginalPrice: input.OriginalPrice,
		Discount:      input.Discount,
	}
	if err := s.giftRepo.Create(gift); err != nil {
		return nil, fmt.Errorf("failed to create gift: %w", err)
	}

	s.invalidateStats()
	return gift, nil
}

// Update применяет частичное обновление подарка
func (s *GiftService) Update(id uint, update GiftUpdate) (*entity.Gift, error) {
	gift, err := s.giftRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		gift.Title = *update.Title
	}
	if update.Description != nil {
		gift.Description = *update.Description
	}
	if update.Points != nil {
		gift.Points = *update.Points
	}
	if update.Category != nil {
		gift.Category = *update.Category
	}
	if update.Image != nil {
		gift.Image = *update.Image
	}
	if update.Availability != nil {
		gift.Availability = *update.Availability
	}
	if update.OriginalPrice != nil {
		gift.OriginalPrice = *update.OriginalPrice
	}
	if update.Discount != nil {
		gift.Discount = *update.Discount
	}

	if err := s.giftRepo.Update(gift); err != nil {
		return nil, fmt.Errorf("failed to update gift: %w", err)
	}

	s.invalidateStats()
	return gift, nil
}

// Delete удаляет подарок
func (s *GiftService) Delete(id uint) error {
	if err := s.giftRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateStats()
	return nil
}

// Stats возвращает сводную статистику каталога (с кешированием)
func (s *GiftService) Stats() (*repository.GiftStats, error) {
	if s.cacheRepo != nil {
		var cached repository.GiftStats
		if err := s.cacheRepo.GetJSON(giftStatsCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := s.giftRepo.Stats()
	if err != nil {
		return nil, fmt.Errorf("failed to get gift stats: %w", err)
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(giftStatsCacheKey, stats, s.statsTTL); err != nil {
			log.Printf("[GiftService] failed to cache stats: %v", err)
		}
	}
	return stats, nil
}

func (s *GiftService) invalidateStats() {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Delete(giftStatsCacheKey); err != nil {
		log.Printf("[GiftService] failed to invalidate stats cache: %v", err)
	}
}
