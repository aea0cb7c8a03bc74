package preference

import "errors"

var (
	// ErrUnknownChannel marks a stored or submitted channel name outside the
	// closed channel set.
	ErrUnknownChannel = errors.New("unknown notification channel")

	// ErrUnknownType marks a submitted notification type outside the closed
	// type set.
	ErrUnknownType = errors.New("unknown notification type")
)
