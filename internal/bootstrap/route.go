package bootstrap

import (
	"net/http"

	"DreamEventsAPI/internal/config"
	"DreamEventsAPI/internal/controller"
	"DreamEventsAPI/internal/middleware"

	"github.com/go-chi/chi/v5"
)

type Route struct {
	cfg                    *config.AppConfig
	chi                    *chi.Mux
	otpController          *controller.OTPController
	authController         *controller.AuthController
	notificationController *controller.NotificationController
	authMiddleware         *middleware.AuthMiddleware
}

func NewRoute(cfg *config.AppConfig, chi *chi.Mux, otpController *controller.OTPController, authController *controller.AuthController, notificationController *controller.NotificationController, authMiddleware *middleware.AuthMiddleware) *Route {
	return &Route{
		cfg:                    cfg,
		chi:                    chi,
		otpController:          otpController,
		authController:         authController,
		notificationController: notificationController,
		authMiddleware:         authMiddleware,
	}
}

func (route *Route) Register() {
	route.chi.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Welcome to DreamEventsAPI"))
	})

	route.chi.Route("/api", func(r chi.Router) {
		r.Post("/otp/send", route.otpController.SendOTP)
		r.Post("/otp/verify", route.otpController.VerifyOTP)
		r.Post("/auth/login", route.authController.Login)

		r.Group(func(r chi.Router) {
			r.Use(route.authMiddleware.VerifyToken)
			r.Get("/auth/me", route.authController.Me)
			r.Post("/auth/logout", route.authController.Logout)
			r.Post("/notifications/send", route.notificationController.Send)
		})
	})
}
