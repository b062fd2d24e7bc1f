package sqlite

import (
	"context"
	"fmt"
	"medreminder/internal/domain/entity"
	"medreminder/internal/pkg/logger"

	"gorm.io/gorm"
)

// ReminderStore is the durable reminder table. Every successful write
// pushes a fresh snapshot to all live subscribers.
type ReminderStore struct {
	db   *gorm.DB
	live *liveQuery
	log  logger.Logger
}

// NewReminderStore creates a store over an already migrated database.
func NewReminderStore(db *gorm.DB, log logger.Logger) *ReminderStore {
	return &ReminderStore{
		db:   db,
		live: newLiveQuery(),
		log:  log,
	}
}

// Insert creates a new reminder. Any ID already set on the record is
// discarded; the database assigns a fresh one and writes it back.
func (s *ReminderStore) Insert(ctx context.Context, reminder *entity.Reminder) error {
	reminder.ID = 0
	if err := s.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return fmt.Errorf("🔴 ERROR: failed to insert reminder %q: %w", reminder.Name, err)
	}
	s.live.invalidate()
	return nil
}

// Update replaces every column of the reminder with a matching ID.
func (s *ReminderStore) Update(ctx context.Context, reminder entity.Reminder) error {
	res := s.db.WithContext(ctx).
		Model(&entity.Reminder{}).
		Where("id = ?", reminder.ID).
		Updates(map[string]interface{}{
			"name":           reminder.Name,
			"dosage":         reminder.Dosage,
			"time_in_millis": reminder.TimeInMillis,
			"is_taken":       reminder.IsTaken,
			"is_repeat":      reminder.IsRepeat,
		})
	if res.Error != nil {
		return fmt.Errorf("🔴 ERROR: failed to update reminder %d: %w", reminder.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		s.log.Debug(fmt.Sprintf("Update skipped, reminder %d does not exist", reminder.ID))
		return nil
	}
	s.live.invalidate()
	return nil
}

// Delete removes the reminder with a matching ID.
func (s *ReminderStore) Delete(ctx context.Context, reminder entity.Reminder) error {
	if reminder.ID == 0 {
		return nil
	}
	res := s.db.WithContext(ctx).Where("id = ?", reminder.ID).Delete(&entity.Reminder{})
	if res.Error != nil {
		return fmt.Errorf("🔴 ERROR: failed to delete reminder %d: %w", reminder.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		s.log.Debug(fmt.Sprintf("Delete skipped, reminder %d does not exist", reminder.ID))
		return nil
	}
	s.live.invalidate()
	return nil
}

// FindAll retrieves all reminders in insertion order.
func (s *ReminderStore) FindAll(ctx context.Context) ([]entity.Reminder, error) {
	reminders := make([]entity.Reminder, 0)
	if err := s.db.WithContext(ctx).Order("id asc").Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("🔴 ERROR: failed to find all reminders: %w", err)
	}
	return reminders, nil
}

// GetAll subscribes to the reminder table. The returned channel yields the
// current snapshot immediately and a new one after each write. A consumer
// that falls behind skips intermediate snapshots but always receives the
// latest. The channel is closed when ctx is done or a re-read fails.
func (s *ReminderStore) GetAll(ctx context.Context) (<-chan []entity.Reminder, error) {
	// Subscribe before the first read so no write can slip between them.
	id, dirty := s.live.subscribe()

	first, err := s.FindAll(ctx)
	if err != nil {
		s.live.unsubscribe(id)
		return nil, err
	}

	out := make(chan []entity.Reminder, 1)
	out <- first

	go func() {
		defer close(out)
		defer s.live.unsubscribe(id)
		for {
			select {
			case <-ctx.Done():
				return
			case <-dirty:
			}

			snapshot, err := s.FindAll(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.log.Error("Live reminder query failed, closing subscription", err)
				}
				return
			}

			select {
			case out <- snapshot:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
