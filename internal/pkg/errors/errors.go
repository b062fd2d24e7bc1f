package errors

import "errors"

// Custom application errors
var (
	ErrReminderNotFound  = errors.New("reminder not found")
	ErrInvalidReminder   = errors.New("invalid reminder")                        // Entry form rejected before reaching the store
	ErrNotRecurring      = errors.New("only recurring reminders can be taken")   // Acknowledge on a one-shot reminder
	ErrDatabaseOperation = errors.New("database operation failed")               // Generic database error
	ErrLineAPI           = errors.New("failed to communicate with the LINE API") // Generic LINE API error
	ErrScheduling        = errors.New("failed to schedule alarm")                // Generic scheduling error
	ErrInternalServer    = errors.New("internal server error")                   // Generic internal error
)
