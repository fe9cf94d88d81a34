package scheduler

import (
	"context"
	"database/sql"
	"log/slog"

	"DreamEventsAPI/internal/config"
	"DreamEventsAPI/internal/repository"
	"DreamEventsAPI/internal/scheduler/job"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cfg     *config.AppConfig
	cron    *cron.Cron
	otpRepo *repository.OTPRepository
}

func New(cfg *config.AppConfig, db *sql.DB) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		cron:    cron.New(),
		otpRepo: repository.NewOTPRepository(db),
	}
}

func (s *Scheduler) Start() {
	slog.Info("Starting Scheduler...")

	s.registerJobs()

	s.cron.Start()
	slog.Info("Scheduler started successfully")
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("Scheduler stopped")
}

func (s *Scheduler) registerJobs() {
	_, err := s.cron.AddFunc(s.cfg.OTPCleanupCron, func() {
		slog.Info("Starting OTP Cleanup Job")
		ctx := context.Background()
		if err := job.RunOTPCleanup(ctx, s.otpRepo); err != nil {
			slog.Error("OTP Cleanup Job failed", "error", err)
		} else {
			slog.Info("OTP Cleanup Job completed")
		}
	})
	if err != nil {
		slog.Error("Failed to register OTP Cleanup job", "error", err)
	} else {
		slog.Info("Registered OTP Cleanup Job", "schedule", s.cfg.OTPCleanupCron)
	}
}
