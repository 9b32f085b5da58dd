package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/myvoice-api/internal/domain/entity"
	"github.com/yourusername/myvoice-api/internal/domain/repository"
	apperrors "github.com/yourusername/myvoice-api/internal/pkg/errors"
	"github.com/yourusername/myvoice-api/internal/service"
)

// QuestionHandler обрабатывает запросы опросов
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler создает новый обработчик опросов
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

type voteRequest struct {
	OptionIndex *int `json:"optionIndex"`
}

// List возвращает опросы с фильтрами status/category/search
func (h *QuestionHandler) List(c *gin.Context) {
	filter := repository.QuestionFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	questions, err := h.questionService.List(filter)
	if err != nil {
		log.Printf("[QuestionHandler] failed to list questions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch questions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"questions": questions,
		"total":     len(questions),
	})
}

// Get возвращает один опрос
func (h *QuestionHandler) Get(c *gin.Context) {
	id := c.MustGet("questionID").(uint)

	question, err := h.questionService.GetByID(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Question not found"})
			return
		}
		log.Printf("[QuestionHandler] failed to get question %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch question"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "question": question})
}

// Create создает новый опрос (в статусе draft)
func (h *QuestionHandler) Create(c *gin.Context) {
	var input service.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Title, description, and at least 2 options are required"})
		return
	}

	question, err := h.questionService.Create(input)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": validationMessage(err)})
			return
		}
		log.Printf("[QuestionHandler] failed to create question: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create question"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Question created successfully",
		"question": question,
	})
}

// Update применяет частичное обновление опроса
func (h *QuestionHandler) Update(c *gin.Context) {
	id := c.MustGet("questionID").(uint)

	var update service.QuestionUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data"})
		return
	}

	question, err := h.questionService.Update(id, update)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Question not found"})
			return
		}
		log.Printf("[QuestionHandler] failed to update question %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update question"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Question updated successfully",
		"question": question,
	})
}

// Delete удаляет опрос
func (h *QuestionHandler) Delete(c *gin.Context) {
	id := c.MustGet("questionID").(uint)

	if err := h.questionService.Delete(id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Question not found"})
			return
		}
		log.Printf("[QuestionHandler] failed to delete question %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete question"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Question deleted successfully",
	})
}

// Vote регистрирует голос за вариант опубликованного опроса
func (h *QuestionHandler) Vote(c *gin.Context) {
	id := c.MustGet("questionID").(uint)

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OptionIndex == nil || *req.OptionIndex < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Valid option index is required"})
		return
	}

	question, err := h.questionService.Vote(id, *req.OptionIndex)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Question not found"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Question is not published"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid option index"})
		default:
			log.Printf("[QuestionHandler] failed to vote on question %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to record vote"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Vote recorded successfully",
		"question": question,
	})
}

// Like регистрирует лайк опроса
func (h *QuestionHandler) Like(c *gin.Context) {
	id := c.MustGet("questionID").(uint)

	question, err := h.questionService.Like(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Question not found"})
			return
		}
		log.Printf("[QuestionHandler] failed to like question %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to record like"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Like recorded successfully",
		"question": question,
	})
}

// Stats возвращает сводную статистику опросов
func (h *QuestionHandler) Stats(c *gin.Context) {
	stats, err := h.questionService.Stats()
	if err != nil {
		log.Printf("[QuestionHandler] failed to get stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch question statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// ExportResults выгружает результаты голосования по опросу в CSV или XLSX.
// Формат задаётся query-параметром format (по умолчанию csv).
func (h *QuestionHandler) ExportResults(c *gin.Context) {
	id := c.MustGet("questionID").(uint)

	question, err := h.questionService.GetByID(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Question not found"})
			return
		}
		log.Printf("[QuestionHandler] failed to get question %d for export: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch question"})
		return
	}

	filename := fmt.Sprintf("question_%d_results", question.ID)

	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		h.exportXLSX(c, question, filename)
	default:
		h.exportCSV(c, question, filename)
	}
}

// exportCSV экспортирует результаты голосования в CSV
func (h *QuestionHandler) exportCSV(c *gin.Context, question *entity.Question, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	// Используем encoding/csv для правильного экранирования запятых/кавычек
	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"Option", "Votes", "Share %"})

	for _, opt := range question.Options {
		share := 0.0
		if question.TotalVotes > 0 {
			share = float64(opt.Votes) / float64(question.TotalVotes) * 100
		}
		writer.Write([]string{
			sanitizeForExcel(opt.Text),
			strconv.Itoa(opt.Votes),
			fmt.Sprintf("%.1f", share),
		})
	}

	writer.Write([]string{"Total", strconv.Itoa(question.TotalVotes), "100.0"})
}

// exportXLSX экспортирует результаты голосования в Excel через StreamWriter
func (h *QuestionHandler) exportXLSX(c *gin.Context, question *entity.Question, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Results"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[QuestionHandler] failed to create stream writer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create Excel file"})
		return
	}

	if err := sw.SetRow("A1", []interface{}{"Option", "Votes", "Share %"}); err != nil {
		log.Printf("[QuestionHandler] failed to write header row: %v", err)
	}

	for i, opt := range question.Options {
		share := 0.0
		if question.TotalVotes > 0 {
			share = float64(opt.Votes) / float64(question.TotalVotes) * 100
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := sw.SetRow(cell, []interface{}{sanitizeForExcel(opt.Text), opt.Votes, share}); err != nil {
			log.Printf("[QuestionHandler] failed to write row %d: %v", i+2, err)
		}
	}

	totalCell := fmt.Sprintf("A%d", len(question.Options)+2)
	if err := sw.SetRow(totalCell, []interface{}{"Total", question.TotalVotes, 100.0}); err != nil {
		log.Printf("[QuestionHandler] failed to write total row: %v", err)
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[QuestionHandler] failed to flush stream writer: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[QuestionHandler] failed to write Excel response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
