package mailer

import "errors"

var (
	ErrFailedToSend  = errors.New("failed to send email")
	ErrInvalidEmail  = errors.New("invalid email")
	ErrInvalidConfig = errors.New("invalid mailer config")
)
