// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic retranslation sweep: crops whose
// bilingual pairs stayed one-sided after a provider outage get re-saved so
// the resolver can fill the missing sides.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"agrocms/internal/service"
)

// Scheduler owns the cron runner and the sweep job.
type Scheduler struct {
	crops  *service.CropService
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a scheduler over the crop service.
func New(crops *service.CropService, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		crops:  crops,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start registers the sweep on the given cron spec and begins running.
// An empty spec disables the sweep.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		s.logger.Info("retranslation sweep disabled")
		return nil
	}

	_, err := s.cron.AddFunc(spec, s.runSweep)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "retranslate_cron", spec)
	return nil
}

// Stop waits for any running job and stops the cron runner.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// RunOnce executes the sweep immediately, outside the schedule.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	return s.crops.RetranslateMissing(ctx)
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	processed, err := s.crops.RetranslateMissing(ctx)
	if err != nil {
		s.logger.Error("retranslation sweep failed", "error", err)
		return
	}
	if processed > 0 {
		s.logger.Info("retranslation sweep completed", "crops", processed)
	}
}
