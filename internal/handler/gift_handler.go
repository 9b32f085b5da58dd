package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/myvoice-api/internal/domain/repository"
	apperrors "github.com/yourusername/myvoice-api/internal/pkg/errors"
	"github.com/yourusername/myvoice-api/internal/service"
)

// GiftHandler обрабатывает запросы каталога подарков.
// Формат ответов {success, ...} сохранён для совместимости с фронтендом.
type GiftHandler struct {
	giftService *service.GiftService
}

// NewGiftHandler создает новый обработчик подарков
func NewGiftHandler(giftService *service.GiftService) *GiftHandler {
	return &GiftHandler{giftService: giftService}
}

// List возвращает подарки с фильтрами category/availability/search
func (h *GiftHandler) List(c *gin.Context) {
	filter := repository.GiftFilter{
		Category:     c.Query("category"),
		Availability: c.Query("availability"),
		Search:       c.Query("search"),
	}

	gifts, err := h.giftService.List(filter)
	if err != nil {
		log.Printf("[GiftHandler] failed to list gifts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch gifts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"gifts":   gifts,
		"total":   len(gifts),
	})
}

// Get возвращает один подарок
func (h *GiftHandler) Get(c *gin.Context) {
	id := c.MustGet("giftID").(uint)

	gift, err := h.giftService.GetByID(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Gift not found"})
			return
		}
		log.Printf("[GiftHandler] failed to get gift %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch gift"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "gift": gift})
}

// Create создает новый подарок
func (h *GiftHandler) Create(c *gin.Context) {
	var input service.GiftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	gift, err := h.giftService.Create(input)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": validationMessage(err)})
			return
		}
		log.Printf("[GiftHandler] failed to create gift: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create gift"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Gift created successfully",
		"gift":    gift,
	})
}

// Update применяет частичное обновление подарка
func (h *GiftHandler) Update(c *gin.Context) {
	id := c.MustGet("giftID").(uint)

	var update service.GiftUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data"})
		return
	}

	gift, err := h.giftService.Update(id, update)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Gift not found"})
			return
		}
		log.Printf("[GiftHandler] failed to update gift %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update gift"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Gift updated successfully",
		"gift":    gift,
	})
}

// Delete удаляет подарок
func (h *GiftHandler) Delete(c *gin.Context) {
	id := c.MustGet("giftID").(uint)

	if err := h.giftService.Delete(id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Gift not found"})
			return
		}
		log.Printf("[GiftHandler] failed to delete gift %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete gift"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Gift deleted successfully",
	})
}

// Stats возвращает сводную статистику каталога
func (h *GiftHandler) Stats(c *gin.Context) {
	stats, err := h.giftService.Stats()
	if err != nil {
		log.Printf("[GiftHandler] failed to get stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch gift statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}
