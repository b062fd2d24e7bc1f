package entity

import (
	"medreminder/internal/domain/constant"
	"time"
)

// Reminder represents one medication schedule entry.
type Reminder struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"column:name;not null"`
	Dosage       string `gorm:"column:dosage;not null"`
	TimeInMillis int64  `gorm:"column:time_in_millis"` // Epoch millis; only hour/minute matter for daily reminders
	IsTaken      bool   `gorm:"column:is_taken"`
	IsRepeat     bool   `gorm:"column:is_repeat"`
}

// TableName specifies the table name for the Reminder entity.
func (Reminder) TableName() string {
	return "reminder"
}

// TriggerTime returns the reminder time in the given location.
func (r Reminder) TriggerTime(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(r.TimeInMillis).In(loc)
}

// Kind returns whether the reminder fires once or daily.
func (r Reminder) Kind() constant.ScheduleKind {
	if r.IsRepeat {
		return constant.KindDaily
	}
	return constant.KindOneShot
}

// Acknowledged returns the record written when the user marks a recurring
// reminder as taken. Acknowledging stops recurrence.
func (r Reminder) Acknowledged() Reminder {
	r.IsTaken = true
	r.IsRepeat = false
	return r
}
