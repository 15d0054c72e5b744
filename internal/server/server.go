package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gitadaily/gita-daily-api/internal/database"
	"github.com/gitadaily/gita-daily-api/internal/mail"
	"github.com/gitadaily/gita-daily-api/internal/reminders"
	"github.com/gitadaily/gita-daily-api/pkg/config"
)

type Server struct {
	port      string
	db        database.Service
	handler   http.Handler
	cfg       *config.Config
	mail      *mail.Mailer
	reminders *reminders.Service
	cancel    context.CancelFunc
}

// NewServer constructs the app server with all dependencies injected.
func NewServer(db database.Service, cfg *config.Config) *Server {
	stats := db.Health()
	mailer := mail.NewMail(
		cfg.SmtpFrom,
		"Gita Daily",
		cfg.SmtpPassword,
		cfg.SmtpHost,
		cfg.SmtpPort,
	)

	fmt.Println("Database Health:", stats)

	if stats["status"] != "up" {
		log.Fatal("Database connection failed")
		return &Server{}
	}
	log.Println("Database connection successful")

	s := &Server{
		port:      cfg.Port,
		db:        db,
		cfg:       cfg,
		mail:      mailer,
		reminders: reminders.NewService(reminders.NewRepository(db), mailer),
	}

	s.handler = s.RegisterRoutes()
	return s
}

// HTTPServer returns the actual *http.Server instance
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", s.port),
		Handler:      s.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// StartBackgroundJobs runs scheduled jobs
func (s *Server) StartBackgroundJobs() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go s.reminders.StartScheduler(ctx)
	log.Println("Reminder scheduler started")
}

func (s *Server) StopBackgroundJobs() {
	if s.cancel != nil {
		s.cancel()
		log.Println("Background jobs stopped gracefully")
	}
}
