package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yourusername/myvoice-api/internal/pkg/errors"
	"github.com/yourusername/myvoice-api/internal/service"
)

// OTPHandler обрабатывает запросы сброса пароля по одноразовому коду.
// Формат ответов {ok, message} сохранён для совместимости с фронтендом.
type OTPHandler struct {
	otpService *service.OTPService
}

// NewOTPHandler создает новый обработчик OTP
func NewOTPHandler(otpService *service.OTPService) *OTPHandler {
	return &OTPHandler{otpService: otpService}
}

type requestResetRequest struct {
	Email string `json:"email"`
}

type verifyOtpOnlyRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

type verifyOtpRequest struct {
	Email       string `json:"email"`
	Otp         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// RequestReset выпускает новый код и отправляет его на email
func (h *OTPHandler) RequestReset(c *gin.Context) {
	var req requestResetRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "Email is required"})
		return
	}

	if err := h.otpService.RequestReset(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "Email is required"})
			return
		}
		log.Printf("[OTPHandler] request-reset failed for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "Erreur lors de l'envoi du code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Code de vérification envoyé à votre email"})
}

// VerifyOtpOnly проверяет код, не расходуя его (шаг перед формой сброса)
func (h *OTPHandler) VerifyOtpOnly(c *gin.Context) {
	var req verifyOtpOnlyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Otp == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "Email et OTP requis"})
		return
	}

	if err := h.otpService.VerifyCode(c.Request.Context(), req.Email, req.Otp); err != nil {
		h.respondVerifyError(c, req.Email, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Code vérifié avec succès"})
}

// VerifyOtp проверяет код, помечает его использованным и разрешает смену пароля
func (h *OTPHandler) VerifyOtp(c *gin.Context) {
	var req verifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Otp == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "Email, OTP et nouveau mot de passe requis"})
		return
	}

	if err := h.otpService.VerifyCodeAndReset(c.Request.Context(), req.Email, req.Otp, req.NewPassword); err != nil {
		h.respondVerifyError(c, req.Email, err)
		return
	}

	// Само изменение пароля выполняет владелец учётных записей;
	// здесь фиксируется только успешная проверка кода.
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Mot de passe réinitialisé avec succès"})
}

// respondVerifyError переводит ошибки проверки кода в ответы API.
// Сообщения различают "истёк" и "неверный", как делал исходный бэкенд.
func (h *OTPHandler) respondVerifyError(c *gin.Context, email string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "Email et OTP requis"})
	case errors.Is(err, service.ErrInvalidOTP):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "Code invalide ou expiré"})
	case errors.Is(err, service.ErrOTPExpired):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "Code expiré"})
	case errors.Is(err, service.ErrOTPMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "Code incorrect"})
	default:
		log.Printf("[OTPHandler] otp verification failed for %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "Erreur interne du serveur"})
	}
}
