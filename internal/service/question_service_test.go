package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/myvoice-api/internal/domain/entity"
	"github.com/yourusername/myvoice-api/internal/domain/repository"
	apperrors "github.com/yourusername/myvoice-api/internal/pkg/errors"
)

// Мок для QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) List(filter repository.QuestionFilter) ([]entity.Question, error) {
	args := m.Called(filter)
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) Update(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockQuestionRepository) Vote(id uint, optionIndex int) (*entity.Question, error) {
	args := m.Called(id, optionIndex)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) Like(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) Stats() (*repository.QuestionStats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.QuestionStats), args.Error(1)
}

// Мок для CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepository) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func TestQuestionService_Create(t *testing.T) {
	questionRepo := new(MockQuestionRepository)
	cacheRepo := new(MockCacheRepository)
	svc := NewQuestionService(questionRepo, cacheRepo)

	questionRepo.On("Create", mock.AnythingOfType("*entity.Question")).Return(nil)
	cacheRepo.On("Delete", questionStatsCacheKey).Return(nil)

	question, err := svc.Create(QuestionInput{
		Title:       "Quel est votre réseau social préféré?",
		Description: "Dites-nous lequel vous utilisez le plus",
		Options: []QuestionOptionInput{
			{Text: "Instagram", Votes: 99}, // входящие счётчики игнорируются
			{Text: "TikTok"},
		},
		Author: "admin",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.QuestionStatusDraft, question.Status)
	assert.Equal(t, "Other", question.Category)
	require.Len(t, question.Options, 2)
	// Голоса нового опроса всегда начинаются с нуля
	assert.Equal(t, 0, question.Options[0].Votes)
	assert.Equal(t, 0, question.TotalVotes)
}

func TestQuestionService_Create_Validation(t *testing.T) {
	svc := NewQuestionService(new(MockQuestionRepository), nil)

	cases := []struct {
		name  string
		input QuestionInput
	}{
		{"no title", QuestionInput{Description: "d", Options: []QuestionOptionInput{{Text: "a"}, {Text: "b"}}, Author: "admin"}},
		{"no description", QuestionInput{Title: "t", Options: []QuestionOptionInput{{Text: "a"}, {Text: "b"}}, Author: "admin"}},
		{"one option", QuestionInput{Title: "t", Description: "d", Options: []QuestionOptionInput{{Text: "a"}}, Author: "admin"}},
		{"no author", QuestionInput{Title: "t", Description: "d", Options: []QuestionOptionInput{{Text: "a"}, {Text: "b"}}}},
		{"empty option text", QuestionInput{Title: "t", Description: "d", Options: []QuestionOptionInput{{Text: "a"}, {Text: "  "}}, Author: "admin"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(tc.input)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestQuestionService_Update_StatusTransition(t *testing.T) {
	questionRepo := new(MockQuestionRepository)
	cacheRepo := new(MockCacheRepository)
	svc := NewQuestionService(questionRepo, cacheRepo)

	existing := &entity.Question{
		ID:     5,
		Title:  "t",
		Status: entity.QuestionStatusDraft,
		Options: entity.OptionList{
			{Text: "a"}, {Text: "b"},
		},
	}
	questionRepo.On("GetByID", uint(5)).Return(existing, nil)
	questionRepo.On("Update", existing).Return(nil)
	cacheRepo.On("Delete", questionStatsCacheKey).Return(nil)

	status := entity.QuestionStatusPublished
	question, err := svc.Update(5, QuestionUpdate{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, entity.QuestionStatusPublished, question.Status)
	// published_at проставляется при первом переходе
	require.NotNil(t, question.PublishedAt)
	firstPublished := *question.PublishedAt

	// Повторный переход не перезаписывает отметку
	closed := entity.QuestionStatusClosed
	_, err = svc.Update(5, QuestionUpdate{Status: &closed})
	require.NoError(t, err)
	status = entity.QuestionStatusPublished
	question, err = svc.Update(5, QuestionUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, firstPublished, *question.PublishedAt)
	assert.NotNil(t, question.ClosedAt)
}

func TestQuestionService_Vote(t *testing.T) {
	questionRepo := new(MockQuestionRepository)
	cacheRepo := new(MockCacheRepository)
	svc := NewQuestionService(questionRepo, cacheRepo)

	voted := &entity.Question{
		ID:         5,
		Status:     entity.QuestionStatusPublished,
		Options:    entity.OptionList{{Text: "a", Votes: 1}, {Text: "b"}},
		TotalVotes: 1,
	}
	questionRepo.On("Vote", uint(5), 0).Return(voted, nil)
	cacheRepo.On("Delete", questionStatsCacheKey).Return(nil)

	question, err := svc.Vote(5, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, question.TotalVotes)

	// Кеш статистики инвалидируется после голосования
	cacheRepo.AssertCalled(t, "Delete", questionStatsCacheKey)
}

func TestQuestionService_Vote_NegativeIndex(t *testing.T) {
	svc := NewQuestionService(new(MockQuestionRepository), nil)

	_, err := svc.Vote(5, -1)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestQuestionService_Vote_NotPublished(t *testing.T) {
	questionRepo := new(MockQuestionRepository)
	svc := NewQuestionService(questionRepo, nil)

	questionRepo.On("Vote", uint(5), 0).Return(nil, apperrors.ErrConflict)

	_, err := svc.Vote(5, 0)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestQuestionService_Stats_CacheHit(t *testing.T) {
	questionRepo := new(MockQuestionRepository)
	cacheRepo := new(MockCacheRepository)
	svc := NewQuestionService(questionRepo, cacheRepo)

	cacheRepo.On("GetJSON", questionStatsCacheKey, mock.Anything).Run(func(args mock.Arguments) {
		dest := args.Get(1).(*repository.QuestionStats)
		dest.Total = 12
	}).Return(nil)

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.Total)

	// При попадании в кеш БД не трогаем
	questionRepo.AssertNotCalled(t, "Stats")
}

func TestQuestionService_Stats_CacheMiss(t *testing.T) {
	questionRepo := new(MockQuestionRepository)
	cacheRepo := new(MockCacheRepository)
	svc := NewQuestionService(questionRepo, cacheRepo)

	cacheRepo.On("GetJSON", questionStatsCacheKey, mock.Anything).Return(fmt.Errorf("cache miss"))
	questionRepo.On("Stats").Return(&repository.QuestionStats{Total: 7}, nil)
	cacheRepo.On("SetJSON", questionStatsCacheKey, mock.Anything, time.Minute).Return(nil)

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.Total)
	cacheRepo.AssertCalled(t, "SetJSON", questionStatsCacheKey, mock.Anything, time.Minute)
}
