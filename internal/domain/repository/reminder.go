package repository

import (
	"context"
	"medreminder/internal/domain/entity"
)

// ReminderRepository defines the interface for reminder data operations.
type ReminderRepository interface {
	// Insert stores a new reminder. The store assigns reminder.ID.
	Insert(ctx context.Context, reminder *entity.Reminder) error
	// Update replaces the stored reminder with the same ID. No-op if absent.
	Update(ctx context.Context, reminder entity.Reminder) error
	// Delete removes the stored reminder with the same ID. No-op if absent.
	Delete(ctx context.Context, reminder entity.Reminder) error
	// GetAllReminders returns a live view of all reminders: the current
	// snapshot first, then a new snapshot after every change. The channel is
	// closed when ctx ends.
	GetAllReminders(ctx context.Context) (<-chan []entity.Reminder, error)
}
