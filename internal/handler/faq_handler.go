package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yourusername/myvoice-api/internal/pkg/errors"
	"github.com/yourusername/myvoice-api/internal/service"
)

// FAQHandler обрабатывает запросы базы знаний
type FAQHandler struct {
	faqService *service.FAQService
}

// NewFAQHandler создает новый обработчик FAQ
func NewFAQHandler(faqService *service.FAQService) *FAQHandler {
	return &FAQHandler{faqService: faqService}
}

type createFAQRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

// List возвращает все записи FAQ
func (h *FAQHandler) List(c *gin.Context) {
	faqs, err := h.faqService.List()
	if err != nil {
		log.Printf("[FAQHandler] failed to list faqs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"faqs": faqs})
}

// Create создает новую запись FAQ
func (h *FAQHandler) Create(c *gin.Context) {
	var req createFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "question and answer are required"})
		return
	}

	faq, err := h.faqService.Create(req.Question, req.Answer, req.Category)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "question and answer are required"})
			return
		}
		log.Printf("[FAQHandler] failed to create faq: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"faq": faq})
}

// Update применяет частичное обновление записи FAQ
func (h *FAQHandler) Update(c *gin.Context) {
	id := c.MustGet("faqID").(uint)

	var update service.FAQUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data"})
		return
	}

	faq, err := h.faqService.Update(id, update)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "FAQ not found"})
			return
		}
		log.Printf("[FAQHandler] failed to update faq %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"faq": faq})
}

// Delete удаляет запись FAQ
func (h *FAQHandler) Delete(c *gin.Context) {
	id := c.MustGet("faqID").(uint)

	if err := h.faqService.Delete(id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "FAQ not found"})
			return
		}
		log.Printf("[FAQHandler] failed to delete faq %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
