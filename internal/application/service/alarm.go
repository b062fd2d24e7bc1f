package service

import (
	"context"
	"medreminder/internal/domain/entity"
)

// AlarmService registers and withdraws the OS-style alarm for each reminder.
type AlarmService interface {
	// Schedule registers the trigger for reminder, replacing any trigger already keyed by its ID.
	Schedule(ctx context.Context, reminder entity.Reminder) error
	// Cancel withdraws the trigger keyed by reminder.ID. Cancelling twice is harmless.
	Cancel(ctx context.Context, reminder entity.Reminder) error
	// InitializeSchedules re-registers persisted reminders on startup.
	InitializeSchedules(ctx context.Context) error
	// Stop stops the underlying scheduler.
	Stop()
}
