package bootstrap

import (
	"database/sql"
	"net/http"

	"DreamEventsAPI/internal/adapter"
	"DreamEventsAPI/internal/config"
	"DreamEventsAPI/internal/constant"
	"DreamEventsAPI/internal/controller"
	"DreamEventsAPI/internal/middleware"
	"DreamEventsAPI/internal/repository"
	"DreamEventsAPI/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

func Init(cfg *config.AppConfig, db *sql.DB, redisAdapter *adapter.RedisAdapter, validator *validator.Validate, httpClient *http.Client, chiMux *chi.Mux) {
	smsAdapter := adapter.NewSMSAdapter(cfg, httpClient)
	emailAdapter := adapter.NewEmailAdapter(cfg)

	otpRepository := repository.NewOTPRepository(db)
	userRepository := repository.NewUserRepository(db)
	sessionRepository := repository.NewSessionRepository(redisAdapter)

	rateLimiter := config.NewRateLimiter(cfg)

	accountService := service.NewAccountService(userRepository, sessionRepository, cfg, validator)

	policies := map[constant.OTPIntent]service.IntentPolicy{
		constant.IntentSignup:     service.NewSignupPolicy(accountService),
		constant.IntentLogin:      service.NewLoginPolicy(accountService),
		constant.IntentAdminLogin: service.NewAdminPolicy(accountService, cfg),
	}

	otpService := service.NewOTPService(otpRepository, smsAdapter, cfg, validator, rateLimiter, policies)
	notificationService := service.NewNotificationService(emailAdapter, cfg, validator)

	otpController := controller.NewOTPController(otpService)
	authController := controller.NewAuthController(accountService)
	notificationController := controller.NewNotificationController(notificationService)

	authMiddleware := middleware.NewAuthMiddleware(accountService)

	route := NewRoute(cfg, chiMux, otpController, authController, notificationController, authMiddleware)
	route.Register()
}
