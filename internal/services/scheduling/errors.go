package scheduling

// SchedulingError is a custom error type for scheduling-related errors
type SchedulingError string

// Error implements the error interface
func (e SchedulingError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrValidation      SchedulingError = "invalid input"
	ErrForbidden       SchedulingError = "operation not allowed for this user"
	ErrAlreadyMember   SchedulingError = "user already requested or joined this session"
	ErrSessionNotFound SchedulingError = "session not found"
	ErrRequestNotFound SchedulingError = "join request not found"
	ErrTooEarly        SchedulingError = "session has not happened yet"
	ErrNilConfig       SchedulingError = "config cannot be nil"
	ErrNilSessionRepo  SchedulingError = "session repository cannot be nil"
	ErrNilClock        SchedulingError = "clock cannot be nil"
	ErrNilUUID         SchedulingError = "UUID generator cannot be nil"
)
