package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/myvoice-api/internal/domain/entity"
	apperrors "github.com/yourusername/myvoice-api/internal/pkg/errors"
)

// Мок для StudyRepository
type MockStudyRepository struct {
	mock.Mock
}

func (m *MockStudyRepository) Create(study *entity.Study) error {
	args := m.Called(study)
	return args.Error(0)
}

func (m *MockStudyRepository) GetByID(id uint) (*entity.Study, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Study), args.Error(1)
}

func (m *MockStudyRepository) List() ([]entity.Study, error) {
	args := m.Called()
	return args.Get(0).([]entity.Study), args.Error(1)
}

func (m *MockStudyRepository) ListActive() ([]entity.Study, error) {
	args := m.Called()
	return args.Get(0).([]entity.Study), args.Error(1)
}

func (m *MockStudyRepository) Update(study *entity.Study) error {
	args := m.Called(study)
	return args.Error(0)
}

func (m *MockStudyRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStudyRepository) AddParticipant(id uint) (*entity.Study, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Study), args.Error(1)
}

func TestFlexibleDuration_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		name     string
		payload  string
		expected int
	}{
		{"number", `30`, 30},
		{"string with unit", `"15 minutes"`, 15},
		{"string number", `"45"`, 45},
		{"string without digits", `"quick"`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d FlexibleDuration
			require.NoError(t, json.Unmarshal([]byte(tc.payload), &d))
			assert.Equal(t, tc.expected, int(d))
		})
	}

	var d FlexibleDuration
	assert.Error(t, json.Unmarshal([]byte(`{"minutes": 5}`), &d))
}

func TestStudyService_Create(t *testing.T) {
	studyRepo := new(MockStudyRepository)
	svc := NewStudyService(studyRepo)

	studyRepo.On("Create", mock.AnythingOfType("*entity.Study")).Return(nil)

	target := 100
	study, err := svc.Create(StudyInput{
		Title:              "Habitudes alimentaires",
		Description:        "Une étude sur les habitudes alimentaires à La Réunion",
		Reward:             12.5,
		Duration:           FlexibleDuration(20),
		TargetParticipants: &target,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StudyStatusAvailable, study.Status)
	assert.Equal(t, "Market Research", study.Category)
	assert.Equal(t, 20, study.DurationMinutes)
	assert.True(t, study.IsActive)
	// max наследует target, если задан только один из двух
	require.NotNil(t, study.MaxParticipants)
	assert.Equal(t, 100, *study.MaxParticipants)
	assert.Equal(t, "admin", study.CreatedBy.ID)
}

func TestStudyService_Create_Validation(t *testing.T) {
	svc := NewStudyService(new(MockStudyRepository))

	_, err := svc.Create(StudyInput{Title: "t", Description: "d", Reward: 0, Duration: 10})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(StudyInput{Title: "t", Description: "d", Reward: 5, Duration: 0})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestStudyService_Participate(t *testing.T) {
	studyRepo := new(MockStudyRepository)
	svc := NewStudyService(studyRepo)

	target := 50
	updated := &entity.Study{ID: 3, Participants: 11, TargetParticipants: &target}
	studyRepo.On("AddParticipant", uint(3)).Return(updated, nil)

	study, err := svc.Participate(3)
	require.NoError(t, err)
	assert.Equal(t, 11, study.Participants)
}

func TestStudyService_Participate_Full(t *testing.T) {
	studyRepo := new(MockStudyRepository)
	svc := NewStudyService(studyRepo)

	studyRepo.On("AddParticipant", uint(3)).Return(nil, apperrors.ErrConflict)

	_, err := svc.Participate(3)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestStudy_IsFull(t *testing.T) {
	// Без целевого лимита исследование не заполняется
	s := &entity.Study{Participants: 1000}
	assert.False(t, s.IsFull())

	target := 10
	s.TargetParticipants = &target
	s.Participants = 9
	assert.False(t, s.IsFull())
	s.Participants = 10
	assert.True(t, s.IsFull())
}
