package service

import (
	"context"
	"errors"
	"fmt"
	"medreminder/internal/domain/entity"
	"medreminder/internal/domain/repository"
	"medreminder/internal/infrastructure/scheduler"
	appErrors "medreminder/internal/pkg/errors"
	"medreminder/internal/pkg/logger"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const notifyTimeout = 30 * time.Second

type alarmService struct {
	cronScheduler *scheduler.Scheduler
	reminderRepo  repository.ReminderRepository
	notifier      Notifier
	loc           *time.Location
	log           logger.Logger
	now           func() time.Time

	// map[reminderID]cron.EntryID
	jobStore map[uint]cron.EntryID
	mu       sync.Mutex
	wg       sync.WaitGroup // immediate firings
}

// NewAlarmService creates a new instance of AlarmService implementation.
func NewAlarmService(
	cronScheduler *scheduler.Scheduler,
	reminderRepo repository.ReminderRepository,
	notifier Notifier,
	loc *time.Location,
	log logger.Logger,
) AlarmService {
	if loc == nil {
		loc = time.Local
	}
	return &alarmService{
		cronScheduler: cronScheduler,
		reminderRepo:  reminderRepo,
		notifier:      notifier,
		loc:           loc,
		log:           log,
		now:           time.Now,
		jobStore:      make(map[uint]cron.EntryID),
	}
}

// oneShotSpec pins a trigger to a single calendar second.
// Seconds Minutes Hours DayOfMonth Month DayOfWeek
func oneShotSpec(t time.Time) string {
	return fmt.Sprintf("%d %d %d %d %d *", t.Second(), t.Minute(), t.Hour(), t.Day(), t.Month())
}

// dailySpec repeats at the wall-clock hour and minute of t.
func dailySpec(t time.Time) string {
	return fmt.Sprintf("0 %d %d * * *", t.Minute(), t.Hour())
}

// Schedule registers the trigger for reminder.
func (s *alarmService) Schedule(ctx context.Context, reminder entity.Reminder) error {
	if reminder.ID == 0 {
		return fmt.Errorf("%w: reminder has not been stored yet", appErrors.ErrScheduling)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(reminder.ID)

	at := reminder.TriggerTime(s.loc)
	if !reminder.IsRepeat && !at.After(s.now()) {
		s.log.Info(fmt.Sprintf("Reminder %d is due at %v which is not in the future, firing now", reminder.ID, at))
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.fire(reminder)
		}()
		return nil
	}

	var (
		spec    string
		entryID cron.EntryID
	)
	if reminder.IsRepeat {
		spec = dailySpec(at)
		job := func() { s.fire(reminder) }
		id, err := s.cronScheduler.AddJob(spec, job)
		if err != nil {
			return fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
		}
		entryID = id
	} else {
		spec = oneShotSpec(at)
		reminderID := reminder.ID
		job := func() {
			// The job must run once, so it unregisters itself before notifying.
			s.mu.Lock()
			if s.jobStore[reminderID] == entryID {
				s.removeLocked(reminderID)
			}
			s.mu.Unlock()
			s.fire(reminder)
		}
		id, err := s.cronScheduler.AddJob(spec, job)
		if err != nil {
			return fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
		}
		entryID = id
	}

	s.jobStore[reminder.ID] = entryID
	next := "unknown"
	if t, ok := s.cronScheduler.Next(entryID); ok {
		next = t.Format("2006/01/02 15:04:05")
	}
	s.log.Info(fmt.Sprintf("Scheduled %s for reminder %d (spec %q, Job ID: %d), next run %s",
		reminder.Kind(), reminder.ID, spec, entryID, next))
	return nil
}

// Cancel withdraws the trigger keyed by reminder.ID.
func (s *alarmService) Cancel(ctx context.Context, reminder entity.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.removeLocked(reminder.ID) {
		s.log.Debug(fmt.Sprintf("No active alarm found for reminder %d to cancel.", reminder.ID))
	}
	return nil
}

// removeLocked drops the trigger for reminderID. Callers hold s.mu.
func (s *alarmService) removeLocked(reminderID uint) bool {
	entryID, ok := s.jobStore[reminderID]
	if !ok {
		return false
	}
	delete(s.jobStore, reminderID)
	s.cronScheduler.RemoveJob(entryID)
	s.log.Info(fmt.Sprintf("Cancelled alarm for reminder %d (Job ID: %d)", reminderID, entryID))
	return true
}

func (s *alarmService) fire(reminder entity.Reminder) {
	s.log.Info(fmt.Sprintf("Executing alarm for reminder %d", reminder.ID))
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := s.notifier.Notify(ctx, reminder); err != nil {
		s.log.Error(fmt.Sprintf("Error delivering alarm for reminder %d", reminder.ID), err)
	}
}

// InitializeSchedules reads one snapshot of the stored reminders and
// re-registers every daily reminder plus each untaken one-shot that is
// still in the future.
func (s *alarmService) InitializeSchedules(ctx context.Context) error {
	s.log.Info("Initializing schedules from database...")

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch, err := s.reminderRepo.GetAllReminders(subCtx)
	if err != nil {
		s.log.Error("Failed to retrieve reminders for initialization", err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	var reminders []entity.Reminder
	select {
	case snapshot, ok := <-ch:
		if !ok {
			return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, errors.New("reminder stream closed before first snapshot"))
		}
		reminders = snapshot
	case <-ctx.Done():
		return ctx.Err()
	}

	now := s.now()
	scheduledCount, skippedCount := 0, 0
	for _, reminder := range reminders {
		if !reminder.IsRepeat && (reminder.IsTaken || !reminder.TriggerTime(s.loc).After(now)) {
			skippedCount++
			continue
		}
		if err := s.Schedule(ctx, reminder); err != nil {
			s.log.Error(fmt.Sprintf("Failed to schedule reminder %d during init", reminder.ID), err)
			continue
		}
		scheduledCount++
	}

	s.log.Info(fmt.Sprintf("Schedule initialization complete. Scheduled: %d, Skipped: %d", scheduledCount, skippedCount))
	s.log.Debug(fmt.Sprintf("Current cron entries: %v", s.cronScheduler.GetEntries()))
	return nil
}

// Stop stops the underlying scheduler.
func (s *alarmService) Stop() {
	s.cronScheduler.Stop()
	s.wg.Wait()
}
