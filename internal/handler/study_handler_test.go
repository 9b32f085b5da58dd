package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/myvoice-api/internal/domain/entity"
	"github.com/yourusername/myvoice-api/internal/middleware"
	apperrors "github.com/yourusername/myvoice-api/internal/pkg/errors"
	"github.com/yourusername/myvoice-api/internal/service"
)

// fakeStudyRepo — in-memory реализация репозитория для тестов обработчика
type fakeStudyRepo struct {
	studies map[uint]*entity.Study
}

func newFakeStudyRepo(studies ...*entity.Study) *fakeStudyRepo {
	r := &fakeStudyRepo{studies: make(map[uint]*entity.Study)}
	for _, s := range studies {
		r.studies[s.ID] = s
	}
	return r
}

func (r *fakeStudyRepo) Create(study *entity.Study) error {
	study.ID = uint(len(r.studies) + 1)
	r.studies[study.ID] = study
	return nil
}

func (r *fakeStudyRepo) GetByID(id uint) (*entity.Study, error) {
	study, ok := r.studies[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return study, nil
}

func (r *fakeStudyRepo) List() ([]entity.Study, error) {
	var out []entity.Study
	for _, s := range r.studies {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeStudyRepo) ListActive() ([]entity.Study, error) {
	var out []entity.Study
	for _, s := range r.studies {
		if s.Status == entity.StudyStatusActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeStudyRepo) Update(study *entity.Study) error {
	if _, ok := r.studies[study.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.studies[study.ID] = study
	return nil
}

func (r *fakeStudyRepo) Delete(id uint) error {
	if _, ok := r.studies[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.studies, id)
	return nil
}

func (r *fakeStudyRepo) AddParticipant(id uint) (*entity.Study, error) {
	study, ok := r.studies[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if study.IsFull() {
		return nil, apperrors.ErrConflict
	}
	study.Participants++
	return study, nil
}

func setupStudyRouter(repo *fakeStudyRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewStudyHandler(service.NewStudyService(repo))

	router := gin.New()
	studies := router.Group("/api/studies")
	{
		withID := studies.Group("/:id")
		withID.Use(middleware.ExtractUintParam("id", "studyID"))
		{
			withID.PATCH("/participate", h.Participate)
		}
	}
	return router
}

func patchParticipate(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestStudyHandler_Participate(t *testing.T) {
	target := 5
	repo := newFakeStudyRepo(&entity.Study{
		ID:                 1,
		Title:              "Étude de consommation",
		Status:             entity.StudyStatusActive,
		Participants:       2,
		TargetParticipants: &target,
	})
	router := setupStudyRouter(repo)

	w := patchParticipate(router, "/api/studies/1/participate")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"participants":3`)
}

func TestStudyHandler_Participate_Full(t *testing.T) {
	// Заполненное исследование отклоняется кодом 400, не 409
	target := 3
	repo := newFakeStudyRepo(&entity.Study{
		ID:                 1,
		Title:              "Étude de consommation",
		Status:             entity.StudyStatusActive,
		Participants:       3,
		TargetParticipants: &target,
	})
	router := setupStudyRouter(repo)

	w := patchParticipate(router, "/api/studies/1/participate")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Study is full")
}

func TestStudyHandler_Participate_NotFound(t *testing.T) {
	router := setupStudyRouter(newFakeStudyRepo())

	w := patchParticipate(router, "/api/studies/42/participate")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Study not found")
}
