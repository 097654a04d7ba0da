package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/isdelr/signup-otp-be/internal/api/handlers"
	"github.com/isdelr/signup-otp-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	corsOpts CORSOptions,
	userService services.UserServiceProvider,
	otpService services.OTPDispatcherProvider,
	eventService services.EventServiceProvider,
	db handlers.Pinger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsHandler(corsOpts))
	r.Use(preflight(corsOpts))

	userHandler := handlers.NewUserHandler(userService)
	otpHandler := handlers.NewOTPHandler(otpService)
	eventHandler := handlers.NewEventHandler(eventService)
	healthHandler := handlers.NewHealthHandler(db, otpService)

	r.Get("/", healthHandler.Index)
	r.Get("/healthz", healthHandler.Healthz)

	r.Post("/login", userHandler.Login)
	r.Post("/signup", userHandler.Signup)
	r.Post("/add-user", userHandler.AddUser)
	r.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.GetAll)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", userHandler.Get)
			r.Put("/", userHandler.Update)
			r.Delete("/", userHandler.Delete)
		})
	})

	r.Post("/send-otp", otpHandler.SendOTP)
	r.Get("/events", eventHandler.GetRecent)

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	return r
}
