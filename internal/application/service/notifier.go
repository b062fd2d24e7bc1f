package service

import (
	"context"
	"fmt"
	"medreminder/internal/domain/entity"
	"medreminder/internal/pkg/logger"
)

// Notifier delivers a fired alarm to the user.
type Notifier interface {
	Notify(ctx context.Context, reminder entity.Reminder) error
}

// AlarmText is the notification body shown when a reminder fires.
func AlarmText(reminder entity.Reminder) string {
	return fmt.Sprintf("Time to take %s (%s)", reminder.Name, reminder.Dosage)
}

type logNotifier struct {
	log logger.Logger
}

// NewLogNotifier returns a Notifier that only writes alarms to the log.
func NewLogNotifier(log logger.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) Notify(_ context.Context, reminder entity.Reminder) error {
	n.log.Info(fmt.Sprintf("⏰ %s [reminder %d, %s]", AlarmText(reminder), reminder.ID, reminder.Kind()))
	return nil
}
