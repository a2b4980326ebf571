package domainerrors

import "errors"

var (
	ErrNotificationNotFound     = errors.New("notification not found")
	ErrInvalidNotificationInput = errors.New("invalid notification input")
	ErrNotificationNotReadable  = errors.New("only delivered notifications can be marked read")
)
