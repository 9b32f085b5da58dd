package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yourusername/myvoice-api/internal/pkg/errors"
	"github.com/yourusername/myvoice-api/internal/service"
)

// StudyHandler обрабатывает запросы исследований
type StudyHandler struct {
	studyService *service.StudyService
}

// NewStudyHandler создает новый обработчик исследований
func NewStudyHandler(studyService *service.StudyService) *StudyHandler {
	return &StudyHandler{studyService: studyService}
}

// List возвращает все исследования
func (h *StudyHandler) List(c *gin.Context) {
	studies, err := h.studyService.List()
	if err != nil {
		log.Printf("[StudyHandler] failed to list studies: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"studies": studies})
}

// ListActive возвращает только активные исследования (главная страница)
func (h *StudyHandler) ListActive(c *gin.Context) {
	studies, err := h.studyService.ListActive()
	if err != nil {
		log.Printf("[StudyHandler] failed to list active studies: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"studies": studies})
}

// Get возвращает одно исследование
func (h *StudyHandler) Get(c *gin.Context) {
	id := c.MustGet("studyID").(uint)

	study, err := h.studyService.GetByID(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Study not found"})
			return
		}
		log.Printf("[StudyHandler] failed to get study %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"study": study})
}

// Create создает новое исследование
func (h *StudyHandler) Create(c *gin.Context) {
	var input service.StudyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Title, description, reward, and duration are required"})
		return
	}

	study, err := h.studyService.Create(input)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"message": validationMessage(err)})
			return
		}
		log.Printf("[StudyHandler] failed to create study: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"study": study})
}

// Update применяет частичное обновление исследования
func (h *StudyHandler) Update(c *gin.Context) {
	id := c.MustGet("studyID").(uint)

	var update service.StudyUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data"})
		return
	}

	study, err := h.studyService.Update(id, update)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Study not found"})
			return
		}
		log.Printf("[StudyHandler] failed to update study %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"study": study})
}

// Delete удаляет исследование
func (h *StudyHandler) Delete(c *gin.Context) {
	id := c.MustGet("studyID").(uint)

	if err := h.studyService.Delete(id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Study not found"})
			return
		}
		log.Printf("[StudyHandler] failed to delete study %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Participate регистрирует участие в исследовании
func (h *StudyHandler) Participate(c *gin.Context) {
	id := c.MustGet("studyID").(uint)

	study, err := h.studyService.Participate(id)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Study not found"})
		case errors.Is(err, apperrors.ErrConflict):
			// Заполненное исследование — ошибка запроса, как отвечал исходный бэкенд
			c.JSON(http.StatusBadRequest, gin.H{"message": "Study is full"})
		default:
			log.Printf("[StudyHandler] failed to add participant to study %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"study": study})
}
