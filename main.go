package main

import (
	"fmt"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/mussacharles60/hospital-booking/internal/appointments"
	"github.com/mussacharles60/hospital-booking/internal/auth"
	"github.com/mussacharles60/hospital-booking/internal/config"
	"github.com/mussacharles60/hospital-booking/internal/departments"
	"github.com/mussacharles60/hospital-booking/internal/handlers"
	"github.com/mussacharles60/hospital-booking/internal/mailer"
	"github.com/mussacharles60/hospital-booking/internal/middleware"
	"github.com/mussacharles60/hospital-booking/internal/permissions"
	"github.com/mussacharles60/hospital-booking/internal/routes"
	"github.com/mussacharles60/hospital-booking/internal/store"
	"github.com/mussacharles60/hospital-booking/internal/tokens"
)

func main() {
	// Load environment variables; a missing .env is fine in production.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.Environment == "development" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := store.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}

	tokenService := tokens.NewService(cfg.Tokens)
	mail := mailer.NewSMTP(cfg.Mailer, cfg.AppURL)
	perms := permissions.NewEngine(db)

	authService := auth.NewService(db, tokenService, mail, log)
	departmentService := departments.NewService(db, log)
	appointmentService := appointments.NewService(db, perms, mail, log)

	router := gin.New()
	router.Use(middleware.RequestLogger(log), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, tokenService, db, routes.Handlers{
		Auth:    handlers.NewAuthHandler(authService, tokenService, db, cfg),
		User:    handlers.NewUserHandler(authService, tokenService, db),
		Admin:   handlers.NewAdminHandler(departmentService, authService),
		Doctor:  handlers.NewDoctorHandler(appointmentService),
		Patient: handlers.NewPatientHandler(appointmentService),
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info().Str("port", cfg.Port).Msg("server running")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
