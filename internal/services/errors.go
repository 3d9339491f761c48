package services

// Custom errors

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

// AlreadyCompletedTodayError blocks a second check-in on a day with a
// completed session. User-visible and final; the client must not retry.
type AlreadyCompletedTodayError struct{}

func (e *AlreadyCompletedTodayError) Error() string {
	return "You already completed today's session. Come back tomorrow."
}

// NoActiveSessionError guards check-out without a matching check-in.
type NoActiveSessionError struct{ Message string }

func (e *NoActiveSessionError) Error() string { return e.Message }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type ForbiddenError struct{ Message string }

func (e *ForbiddenError) Error() string { return e.Message }
