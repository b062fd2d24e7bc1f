// Package usecase holds one single-purpose operation per reminder action.
// Each use case forwards to exactly one repository method.
package usecase

import (
	"context"
	"medreminder/internal/domain/entity"
	"medreminder/internal/domain/repository"
)

// InsertReminder stores a new reminder.
type InsertReminder struct {
	repo repository.ReminderRepository
}

func NewInsertReminder(repo repository.ReminderRepository) *InsertReminder {
	return &InsertReminder{repo: repo}
}

// Execute inserts reminder; on success reminder.ID holds the assigned identity.
func (u *InsertReminder) Execute(ctx context.Context, reminder *entity.Reminder) error {
	return u.repo.Insert(ctx, reminder)
}

// UpdateReminder replaces a stored reminder.
type UpdateReminder struct {
	repo repository.ReminderRepository
}

func NewUpdateReminder(repo repository.ReminderRepository) *UpdateReminder {
	return &UpdateReminder{repo: repo}
}

func (u *UpdateReminder) Execute(ctx context.Context, reminder entity.Reminder) error {
	return u.repo.Update(ctx, reminder)
}

// DeleteReminder removes a stored reminder.
type DeleteReminder struct {
	repo repository.ReminderRepository
}

func NewDeleteReminder(repo repository.ReminderRepository) *DeleteReminder {
	return &DeleteReminder{repo: repo}
}

func (u *DeleteReminder) Execute(ctx context.Context, reminder entity.Reminder) error {
	return u.repo.Delete(ctx, reminder)
}

// GetAllReminders opens the live list of reminders.
type GetAllReminders struct {
	repo repository.ReminderRepository
}

func NewGetAllReminders(repo repository.ReminderRepository) *GetAllReminders {
	return &GetAllReminders{repo: repo}
}

func (u *GetAllReminders) Execute(ctx context.Context) (<-chan []entity.Reminder, error) {
	return u.repo.GetAllReminders(ctx)
}
