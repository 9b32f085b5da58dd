package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/myvoice-api/internal/config"
	"github.com/yourusername/myvoice-api/internal/handler"
	"github.com/yourusername/myvoice-api/internal/middleware"
	pgRepo "github.com/yourusername/myvoice-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/myvoice-api/internal/repository/redis"
	"github.com/yourusername/myvoice-api/internal/service"
	"github.com/yourusername/myvoice-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis с использованием унифицированной конфигурации
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	faqRepo := pgRepo.NewFAQRepo(db)
	studyRepo := pgRepo.NewStudyRepo(db)
	giftRepo := pgRepo.NewGiftRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	otpTokenRepo := pgRepo.NewOtpTokenRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем отправку почты
	var emailService service.EmailService
	if cfg.Email.Provider == "resend" && cfg.Email.Enabled {
		resendService, err := service.NewResendEmailService(cfg.Email.APIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize ResendEmailService: %v", err)
			os.Exit(1)
		}
		emailService = resendService
		log.Println("Email provider: resend")
	} else {
		emailService = &service.NoopEmailService{}
		log.Println("Email provider: noop (коды только логируются)")
	}

	// Инициализируем сервисы
	faqService := service.NewFAQService(faqRepo)
	studyService := service.NewStudyService(studyRepo)
	giftService := service.NewGiftService(giftRepo, cacheRepo)
	questionService := service.NewQuestionService(questionRepo, cacheRepo)

	otpService, err := service.NewOTPService(otpTokenRepo, emailService, cfg.Otp.TTL, cfg.Otp.CodeLength)
	if err != nil {
		log.Printf("Failed to initialize OTPService: %v", err)
		os.Exit(1)
	}

	// Создаем контекст с отменой для корректного завершения работы горутин
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запускаем фоновую задачу для очистки истёкших otp-кодов
	go func() {
		interval := cfg.Otp.CleanupInterval
		if interval <= 0 {
			interval = time.Hour
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Printf("Запуск механизма периодической очистки истёкших otp-кодов (каждые %s)", interval)

		for {
			select {
			case <-ticker.C:
				deleted, err := otpService.CleanupExpired()
				if err != nil {
					log.Printf("Ошибка при очистке otp-кодов: %v", err)
				} else if deleted > 0 {
					log.Printf("Очистка otp-кодов: удалено %d записей", deleted)
				}
			case <-ctx.Done():
				log.Println("Завершение работы горутины очистки otp-кодов")
				return
			}
		}
	}()

	// Инициализируем обработчики
	faqHandler := handler.NewFAQHandler(faqService)
	studyHandler := handler.NewStudyHandler(studyService)
	giftHandler := handler.NewGiftHandler(giftService)
	questionHandler := handler.NewQuestionHandler(questionService)
	otpHandler := handler.NewOTPHandler(otpService)

	// Инициализируем rate limiter для otp endpoints
	rateLimiter := middleware.NewRateLimiter(redisClient)

	isProduction := gin.Mode() == gin.ReleaseMode

	// Инициализируем роутер Gin
	router := gin.Default()
	router.Use(middleware.RequestID())

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	// В production (GIN_MODE=release): не доверяем прокси (защита от IP spoofing)
	// В development: доверяем localhost
	// При деплое на VM с load balancer: добавьте IP балансировщика в список
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://myvoice974.vercel.app", "https://myvoice974admin.vercel.app", "http://localhost:5173", "http://localhost:8000", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})

		// База знаний
		faqs := api.Group("/faqs")
		{
			faqs.GET("", faqHandler.List)
			faqs.POST("", faqHandler.Create)

			faqWithID := faqs.Group("/:id")
			faqWithID.Use(middleware.ExtractUintParam("id", "faqID"))
			{
				faqWithID.PUT("", faqHandler.Update)
				faqWithID.DELETE("", faqHandler.Delete)
			}
		}

		// Исследования
		studies := api.Group("/studies")
		{
			studies.GET("", studyHandler.List)
			studies.GET("/active", studyHandler.ListActive)
			studies.POST("", studyHandler.Create)

			studyWithID := studies.Group("/:id")
			studyWithID.Use(middleware.ExtractUintParam("id", "studyID"))
			{
				studyWithID.GET("", studyHandler.Get)
				studyWithID.PUT("", studyHandler.Update)
				studyWithID.DELETE("", studyHandler.Delete)
				studyWithID.PATCH("/participate", studyHandler.Participate)
			}
		}

		// Каталог подарков
		gifts := api.Group("/gifts")
		{
			gifts.GET("", giftHandler.List)
			gifts.GET("/stats/summary", giftHandler.Stats)
			gifts.POST("", giftHandler.Create)

			giftWithID := gifts.Group("/:id")
			giftWithID.Use(middleware.ExtractUintParam("id", "giftID"))
			{
				giftWithID.GET("", giftHandler.Get)
				giftWithID.PUT("", giftHandler.Update)
				giftWithID.DELETE("", giftHandler.Delete)
			}
		}

		// Опросы
		questions := api.Group("/questions")
		{
			questions.GET("", questionHandler.List)
			questions.GET("/stats/summary", questionHandler.Stats)
			questions.POST("", questionHandler.Create)

			questionWithID := questions.Group("/:id")
			questionWithID.Use(middleware.ExtractUintParam("id", "questionID"))
			{
				questionWithID.GET("", questionHandler.Get)
				questionWithID.PUT("", questionHandler.Update)
				questionWithID.DELETE("", questionHandler.Delete)
				questionWithID.POST("/vote", questionHandler.Vote)
				questionWithID.POST("/like", questionHandler.Like)
				questionWithID.GET("/export", questionHandler.ExportResults)
			}
		}

		// Сброс пароля по одноразовому коду
		otp := api.Group("/otp")
		if cfg.RateLimit.Enabled {
			groupCfg := middleware.DefaultOtpRateLimitConfig()
			if cfg.RateLimit.RequestsPerMinute > 0 {
				groupCfg.MaxRequests = cfg.RateLimit.RequestsPerMinute
			}
			otp.Use(rateLimiter.LimitByIP(groupCfg))
		}
		{
			sendCfg := middleware.StrictOtpRateLimitConfig()
			if cfg.RateLimit.SendPerMinute > 0 {
				sendCfg.MaxRequests = cfg.RateLimit.SendPerMinute
			}
			if cfg.RateLimit.Enabled {
				otp.POST("/request-reset", rateLimiter.Limit(sendCfg), otpHandler.RequestReset)
			} else {
				otp.POST("/request-reset", otpHandler.RequestReset)
			}
			otp.POST("/verify-otp-only", otpHandler.VerifyOtpOnly)
			otp.POST("/verify-otp", otpHandler.VerifyOtp)
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// После получения сигнала SIGINT или SIGTERM вызываем cancel() для завершения горутин
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
