package constant

// ScheduleKind distinguishes one-shot reminders from daily ones.
type ScheduleKind int

const (
	// KindOneShot fires once at the exact reminder time.
	KindOneShot ScheduleKind = iota
	// KindDaily fires every day at the hour and minute of the reminder time.
	KindDaily
)

// String returns the label shown next to a reminder.
func (k ScheduleKind) String() string {
	switch k {
	case KindDaily:
		return "Repeating Daily"
	default:
		return "One-time Reminder"
	}
}
