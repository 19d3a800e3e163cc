// Package reminder periodically tells a user how many words are waiting
// for review.
package reminder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/vocabulous/vocabulous/internal/model"
)

// Queue lists a user's due words.
type Queue interface {
	ReviewQueue(ctx context.Context, userID string, limit int) ([]*model.WordProgress, error)
}

// Notifier delivers a reminder.
type Notifier interface {
	Notify(ctx context.Context, userID string, due int) error
}

// Reminder runs the due-review check on a fixed interval.
type Reminder struct {
	scheduler *gocron.Scheduler
	queue     Queue
	notifier  Notifier
	userID    string
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a reminder for userID. It does nothing until Start.
func New(queue Queue, notifier Notifier, userID string, interval time.Duration, logger *slog.Logger) *Reminder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reminder{
		scheduler: gocron.NewScheduler(time.UTC),
		queue:     queue,
		notifier:  notifier,
		userID:    userID,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the check and runs it in the background. The first
// check runs immediately.
func (r *Reminder) Start(ctx context.Context) error {
	if r.interval <= 0 {
		return fmt.Errorf("%w: reminder interval must be positive", model.ErrInvalidInput)
	}
	_, err := r.scheduler.Every(r.interval).Do(func() {
		if _, err := r.Check(ctx); err != nil {
			r.logger.Error("reminder check failed",
				slog.String("user_id", r.userID), slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	r.scheduler.StartAsync()
	r.logger.Info("reminder started",
		slog.String("user_id", r.userID), slog.Duration("interval", r.interval))
	return nil
}

// Stop terminates the scheduled check.
func (r *Reminder) Stop() {
	r.scheduler.Stop()
}

// Check counts due words and notifies when there are any. It returns the
// number of due words.
func (r *Reminder) Check(ctx context.Context) (int, error) {
	due, err := r.queue.ReviewQueue(ctx, r.userID, 0)
	if err != nil {
		return 0, fmt.Errorf("load review queue: %w", err)
	}
	if len(due) == 0 {
		r.logger.Debug("no words due", slog.String("user_id", r.userID))
		return 0, nil
	}
	if err := r.notifier.Notify(ctx, r.userID, len(due)); err != nil {
		return len(due), fmt.Errorf("notify: %w", err)
	}
	return len(due), nil
}

// WriterNotifier prints reminders to W using Format. A nil Format prints
// a plain sentence.
type WriterNotifier struct {
	W      io.Writer
	Format func(due int) string
}

func (n WriterNotifier) Notify(ctx context.Context, userID string, due int) error {
	msg := fmt.Sprintf("%d word(s) due for review", due)
	if n.Format != nil {
		msg = n.Format(due)
	}
	_, err := fmt.Fprintln(n.W, msg)
	return err
}
