package dto

import (
	"medreminder/internal/domain/entity"
	"strings"
	"time"
)

// ReminderResponse is the DTO for sending reminder information to the client (e.g., listing reminders).
type ReminderResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Dosage       string    `json:"dosage"`
	TimeInMillis int64     `json:"time_in_millis"`
	RemindTime   time.Time `json:"remind_time"`
	IsTaken      bool      `json:"is_taken"`
	IsRepeat     bool      `json:"is_repeat"`
	Kind         string    `json:"kind"`
}

// ToReminderResponse converts an entity.Reminder to a ReminderResponse DTO.
func ToReminderResponse(r entity.Reminder, loc *time.Location) ReminderResponse {
	return ReminderResponse{
		ID:           r.ID,
		Name:         r.Name,
		Dosage:       r.Dosage,
		TimeInMillis: r.TimeInMillis,
		RemindTime:   r.TriggerTime(loc),
		IsTaken:      r.IsTaken,
		IsRepeat:     r.IsRepeat,
		Kind:         r.Kind().String(),
	}
}

// ToReminderResponseList converts a slice of entity.Reminder to a slice of ReminderResponse DTOs.
func ToReminderResponseList(reminders []entity.Reminder, loc *time.Location) []ReminderResponse {
	list := make([]ReminderResponse, len(reminders))
	for i, r := range reminders {
		list[i] = ToReminderResponse(r, loc)
	}
	return list
}

// CreateReminderRequest is the entry form for a new reminder.
type CreateReminderRequest struct {
	Name         string `json:"name" validate:"required"`
	Dosage       string `json:"dosage" validate:"required"`
	TimeInMillis int64  `json:"time_in_millis" validate:"gt=0"` // 0 means no time was picked
	IsRepeat     bool   `json:"is_repeat"`
}

// Normalize trims surrounding whitespace so blank fields fail validation.
func (r *CreateReminderRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Dosage = strings.TrimSpace(r.Dosage)
}

// ToEntity builds a not-yet-stored, untaken reminder.
func (r CreateReminderRequest) ToEntity() entity.Reminder {
	return entity.Reminder{
		Name:         r.Name,
		Dosage:       r.Dosage,
		TimeInMillis: r.TimeInMillis,
		IsRepeat:     r.IsRepeat,
	}
}

// UpdateReminderRequest replaces every editable field of a stored reminder.
type UpdateReminderRequest struct {
	Name         string `json:"name" validate:"required"`
	Dosage       string `json:"dosage" validate:"required"`
	TimeInMillis int64  `json:"time_in_millis" validate:"gt=0"`
	IsRepeat     bool   `json:"is_repeat"`
	IsTaken      bool   `json:"is_taken"`
}

// Normalize trims surrounding whitespace so blank fields fail validation.
func (r *UpdateReminderRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Dosage = strings.TrimSpace(r.Dosage)
}

// ToEntity applies the request to the reminder identified by id.
func (r UpdateReminderRequest) ToEntity(id uint) entity.Reminder {
	return entity.Reminder{
		ID:           id,
		Name:         r.Name,
		Dosage:       r.Dosage,
		TimeInMillis: r.TimeInMillis,
		IsTaken:      r.IsTaken,
		IsRepeat:     r.IsRepeat,
	}
}

// ErrorResponse is the body returned for rejected requests.
type ErrorResponse struct {
	Message string `json:"message"`
}
