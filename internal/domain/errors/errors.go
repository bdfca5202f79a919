package errors

import "errors"

var (
	ErrBadRequest         = errors.New("invalid request data")
	ErrValidationFailed   = errors.New("validation failed")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrStorageFailure     = errors.New("storage request failed")
	ErrInternalServer     = errors.New("internal server error")

	ErrInvalidEmail      = errors.New("a valid email is required")
	ErrInvalidPassword   = errors.New("a password is required")
	ErrInvalidTitle      = errors.New("a task title is required")
	ErrInvalidDueDate    = errors.New("due_date could not be parsed as a date")
	ErrInvalidTaskID     = errors.New("task id must be an integer")
	ErrMissingTaskFields = errors.New("title, due_date, category, urgency, description and assigned_to are required")

	ErrConfigFileReadFailed = errors.New("failed to read config file")
	ErrConfigParseFailed    = errors.New("failed to parse config file")
	ErrConfigInvalidFormat  = errors.New("invalid config value")
	ErrEmptyDSN             = errors.New("database connection string is empty")
	ErrEmptyMigratePath     = errors.New("migrations path is empty")
)
