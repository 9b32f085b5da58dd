package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/myvoice-api/internal/domain/entity"
	apperrors "github.com/yourusername/myvoice-api/internal/pkg/errors"
	"github.com/yourusername/myvoice-api/internal/service"
)

// fakeOtpTokenRepo — in-memory реализация репозитория для тестов обработчика
type fakeOtpTokenRepo struct {
	tokens []*entity.OtpToken
	nextID uint
}

func (r *fakeOtpTokenRepo) Create(token *entity.OtpToken) error {
	r.nextID++
	token.ID = r.nextID
	r.tokens = append(r.tokens, token)
	return nil
}

func (r *fakeOtpTokenRepo) GetLatestUnusedByEmail(email string) (*entity.OtpToken, error) {
	for i := len(r.tokens) - 1; i >= 0; i-- {
		if r.tokens[i].Email == email && !r.tokens[i].Used {
			return r.tokens[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeOtpTokenRepo) MarkUsed(id uint) error {
	for _, t := range r.tokens {
		if t.ID == id {
			t.Used = true
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeOtpTokenRepo) DeleteByID(id uint) error {
	for i, t := range r.tokens {
		if t.ID == id {
			r.tokens = append(r.tokens[:i], r.tokens[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeOtpTokenRepo) DeleteAllForEmail(email string) error {
	kept := r.tokens[:0]
	for _, t := range r.tokens {
		if t.Email != email {
			kept = append(kept, t)
		}
	}
	r.tokens = kept
	return nil
}

func (r *fakeOtpTokenRepo) DeleteExpired(now time.Time) (int64, error) {
	var deleted int64
	kept := r.tokens[:0]
	for _, t := range r.tokens {
		if t.IsExpired(now) {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	r.tokens = kept
	return deleted, nil
}

// captureEmailService запоминает последний отправленный код
type captureEmailService struct {
	lastCode string
}

func (s *captureEmailService) SendOtpCode(ctx context.Context, toEmail, code, idempotencyKey string) error {
	s.lastCode = code
	return nil
}

func setupOtpRouter(t *testing.T) (*gin.Engine, *captureEmailService) {
	gin.SetMode(gin.TestMode)

	repo := &fakeOtpTokenRepo{}
	emails := &captureEmailService{}
	otpService, err := service.NewOTPService(repo, emails, 10*time.Minute, 6)
	require.NoError(t, err)

	h := NewOTPHandler(otpService)

	router := gin.New()
	otp := router.Group("/api/otp")
	{
		otp.POST("/request-reset", h.RequestReset)
		otp.POST("/verify-otp-only", h.VerifyOtpOnly)
		otp.POST("/verify-otp", h.VerifyOtp)
	}
	return router, emails
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestOTPHandler_RequestReset(t *testing.T) {
	router, _ := setupOtpRouter(t)

	w := postJSON(router, "/api/otp/request-reset", gin.H{"email": "user@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["ok"])
	assert.Equal(t, "Code de vérification envoyé à votre email", resp["message"])
}

func TestOTPHandler_RequestReset_MissingEmail(t *testing.T) {
	router, _ := setupOtpRouter(t)

	w := postJSON(router, "/api/otp/request-reset", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email is required")
}

func TestOTPHandler_VerifyOtpOnly(t *testing.T) {
	router, emails := setupOtpRouter(t)

	postJSON(router, "/api/otp/request-reset", gin.H{"email": "user@example.com"})
	require.NotEmpty(t, emails.lastCode)

	// Верный код проходит, и проверка его не расходует
	for i := 0; i < 2; i++ {
		w := postJSON(router, "/api/otp/verify-otp-only", gin.H{"email": "user@example.com", "otp": emails.lastCode})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Code vérifié avec succès")
	}

	// Неверный код отклоняется
	w := postJSON(router, "/api/otp/verify-otp-only", gin.H{"email": "user@example.com", "otp": "000000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Code incorrect")
}

func TestOTPHandler_VerifyOtpOnly_NoCodeIssued(t *testing.T) {
	router, _ := setupOtpRouter(t)

	w := postJSON(router, "/api/otp/verify-otp-only", gin.H{"email": "nobody@example.com", "otp": "123456"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Code invalide ou expiré")
}

func TestOTPHandler_VerifyOtp(t *testing.T) {
	router, emails := setupOtpRouter(t)

	postJSON(router, "/api/otp/request-reset", gin.H{"email": "user@example.com"})
	require.NotEmpty(t, emails.lastCode)

	w := postJSON(router, "/api/otp/verify-otp", gin.H{
		"email":       "user@example.com",
		"otp":         emails.lastCode,
		"newPassword": "newSecret1!",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Mot de passe réinitialisé avec succès")

	// Код одноразовый: повторная попытка с тем же кодом отклоняется
	w = postJSON(router, "/api/otp/verify-otp", gin.H{
		"email":       "user@example.com",
		"otp":         emails.lastCode,
		"newPassword": "anotherSecret1!",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Code invalide ou expiré")
}

func TestOTPHandler_VerifyOtp_MissingFields(t *testing.T) {
	router, _ := setupOtpRouter(t)

	w := postJSON(router, "/api/otp/verify-otp", gin.H{"email": "user@example.com", "otp": "123456"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email, OTP et nouveau mot de passe requis")
}

func TestOTPHandler_NewCodeInvalidatesOld(t *testing.T) {
	router, emails := setupOtpRouter(t)

	postJSON(router, "/api/otp/request-reset", gin.H{"email": "user@example.com"})
	firstCode := emails.lastCode

	postJSON(router, "/api/otp/request-reset", gin.H{"email": "user@example.com"})
	secondCode := emails.lastCode

	if firstCode != secondCode {
		// Старый код больше не действует
		w := postJSON(router, "/api/otp/verify-otp-only", gin.H{"email": "user@example.com", "otp": firstCode})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	// Новый код действует
	w := postJSON(router, "/api/otp/verify-otp-only", gin.H{"email": "user@example.com", "otp": secondCode})
	assert.Equal(t, http.StatusOK, w.Code)
}
