package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/isdelr/signup-otp-be/internal/api"
	"github.com/isdelr/signup-otp-be/internal/config"
	"github.com/isdelr/signup-otp-be/internal/database"
	"github.com/isdelr/signup-otp-be/internal/logger"
	"github.com/isdelr/signup-otp-be/internal/models"
	"github.com/isdelr/signup-otp-be/internal/services"
	"github.com/isdelr/signup-otp-be/internal/sms"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.App.Env, cfg.Log.Level)

	// Set up database
	db, err := database.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("Failed to initialize database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	eventService := services.NewEventService(db)
	userService := services.NewUserService(db, services.NewBcryptHasher(), eventService)
	credentialService := services.NewCredentialService(db)

	otpService, err := buildOTPService(ctx, cfg, credentialService, eventService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize OTP dispatcher")
	}

	// Set up router
	router := api.NewRouter(api.CORSOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: cfg.CORS.AllowedMethods,
		AllowedHeaders: cfg.CORS.AllowedHeaders,
		MaxAge:         cfg.CORS.MaxAge,
	}, userService, otpService, eventService, db)

	// Set up server
	srv := &http.Server{
		Addr:    cfg.Address(),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

// buildOTPService seeds the gateway credential from config when the table is
// empty, then builds the dispatcher from the stored credential. A missing
// credential leaves the dispatcher disabled instead of failing startup.
func buildOTPService(ctx context.Context, cfg *config.Config, creds services.CredentialServiceProvider, events services.EventServiceProvider) (*services.OTPService, error) {
	opts := services.OTPOptions{
		CountryPrefix:   cfg.OTP.CountryPrefix,
		MessageTemplate: cfg.OTP.MessageTemplate,
	}

	if cfg.HasSeedCredential() {
		seeded, err := creds.SeedCredential(ctx, models.GatewayCredential{
			AccountSID:  cfg.SMS.Seed.AccountSID,
			AuthToken:   cfg.SMS.Seed.AuthToken,
			PhoneNumber: cfg.SMS.Seed.PhoneNumber,
		})
		if err != nil {
			return nil, err
		}
		if seeded {
			log.Info().Msg("Seeded SMS gateway credential from configuration")
		}
	}

	cred, err := creds.GetActiveCredential(ctx)
	if errors.Is(err, services.ErrCredentialNotFound) {
		log.Warn().Msg("No SMS gateway credential found, OTP dispatch disabled")
		return services.NewOTPService(nil, "", opts, events), nil
	}
	if err != nil {
		return nil, err
	}

	var sender sms.Sender
	switch cfg.SMS.Driver {
	case "log":
		sender = sms.NewLogSender(log.Logger)
	default:
		sender = sms.NewTwilioSender(cred.AccountSID, cred.AuthToken)
	}
	log.Info().Str("driver", cfg.SMS.Driver).Str("account_sid", cred.AccountSID).Msg("SMS gateway client initialized")

	return services.NewOTPService(sender, cred.PhoneNumber, opts, events), nil
}
