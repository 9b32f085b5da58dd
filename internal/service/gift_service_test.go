package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/myvoice-api/internal/domain/entity"
	"github.com/yourusername/myvoice-api/internal/domain/repository"
	apperrors "github.com/yourusername/myvoice-api/internal/pkg/errors"
)

// Мок для GiftRepository
type MockGiftRepository struct {
	mock.Mock
}

func (m *MockGiftRepository) Create(gift *entity.Gift) error {
	args := m.Called(gift)
	return args.Error(0)
}

func (m *MockGiftRepository) GetByID(id uint) (*entity.Gift, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Gift), args.Error(1)
}

func (m *MockGiftRepository) List(filter repository.GiftFilter) ([]entity.Gift, error) {
	args := m.Called(filter)
	return args.Get(0).([]entity.Gift), args.Error(1)
}

func (m *MockGiftRepository) Update(gift *entity.Gift) error {
	args := m.Called(gift)
	return args.Error(0)
}

func (m *MockGiftRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockGiftRepository) Stats() (*repository.GiftStats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.GiftStats), args.Error(1)
}

func TestGiftService_Create(t *testing.T) {
	giftRepo := new(MockGiftRepository)
	cacheRepo := new(MockCacheRepository)
	svc := NewGiftService(giftRepo, cacheRepo)

	giftRepo.On("Create", mock.AnythingOfType("*entity.Gift")).Return(nil)
	cacheRepo.On("Delete", giftStatsCacheKey).Return(nil)

	gift, err := svc.Create(GiftInput{
		Title:       "Carte cadeau 20€",
		Description: "Carte cadeau utilisable en ligne",
		Points:      500,
		Category:    "Shopping",
		Image:       "https://example.com/card.png",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.GiftAvailable, gift.Availability)
	// Кеш статистики инвалидируется после создания
	cacheRepo.AssertCalled(t, "Delete", giftStatsCacheKey)
}

func TestGiftService_Create_Validation(t *testing.T) {
	svc := NewGiftService(new(MockGiftRepository), nil)

	cases := []struct {
		name  string
		input GiftInput
	}{
		{"missing title", GiftInput{Description: "d", Points: 10, Category: "c", Image: "i"}},
		{"zero points", GiftInput{Title: "t", Description: "d", Points: 0, Category: "c", Image: "i"}},
		{"discount above 100", GiftInput{Title: "t", Description: "d", Points: 10, Category: "c", Image: "i", Discount: 150}},
		{"negative discount", GiftInput{Title: "t", Description: "d", Points: 10, Category: "c", Image: "i", Discount: -5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(tc.input)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestGiftService_Update_Partial(t *testing.T) {
	giftRepo := new(MockGiftRepository)
	cacheRepo := new(MockCacheRepository)
	svc := NewGiftService(giftRepo, cacheRepo)

	existing := &entity.Gift{ID: 2, Title: "old", Points: 100, Availability: entity.GiftAvailable}
	giftRepo.On("GetByID", uint(2)).Return(existing, nil)
	giftRepo.On("Update", existing).Return(nil)
	cacheRepo.On("Delete", giftStatsCacheKey).Return(nil)

	availability := entity.GiftOutOfStock
	gift, err := svc.Update(2, GiftUpdate{Availability: &availability})
	require.NoError(t, err)

	assert.Equal(t, entity.GiftOutOfStock, gift.Availability)
	// Непереданные поля не меняются
	assert.Equal(t, "old", gift.Title)
	assert.Equal(t, 100, gift.Points)
}

func TestGiftService_Update_NotFound(t *testing.T) {
	giftRepo := new(MockGiftRepository)
	svc := NewGiftService(giftRepo, nil)

	giftRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)

	_, err := svc.Update(99, GiftUpdate{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
