package sqlite

import (
	"context"
	"medreminder/internal/domain/entity"
	"medreminder/internal/domain/repository"
)

// ReminderDAO is the storage contract the repository forwards to.
// ReminderStore implements it.
type ReminderDAO interface {
	Insert(ctx context.Context, reminder *entity.Reminder) error
	Update(ctx context.Context, reminder entity.Reminder) error
	Delete(ctx context.Context, reminder entity.Reminder) error
	GetAll(ctx context.Context) (<-chan []entity.Reminder, error)
}

type reminderRepository struct {
	dao ReminderDAO
}

// NewReminderRepository creates a new instance of ReminderRepository.
func NewReminderRepository(dao ReminderDAO) repository.ReminderRepository {
	return &reminderRepository{dao: dao}
}

// Insert stores a new reminder.
func (r *reminderRepository) Insert(ctx context.Context, reminder *entity.Reminder) error {
	return r.dao.Insert(ctx, reminder)
}

// Update replaces an existing reminder.
func (r *reminderRepository) Update(ctx context.Context, reminder entity.Reminder) error {
	return r.dao.Update(ctx, reminder)
}

// Delete removes a reminder.
func (r *reminderRepository) Delete(ctx context.Context, reminder entity.Reminder) error {
	return r.dao.Delete(ctx, reminder)
}

// GetAllReminders forwards the live query unchanged.
func (r *reminderRepository) GetAllReminders(ctx context.Context) (<-chan []entity.Reminder, error) {
	return r.dao.GetAll(ctx)
}
