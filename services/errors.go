package services

import "errors"

var (
	ErrJobNotFound         = errors.New("job not found")
	ErrTestNotFound        = errors.New("aptitude test not found")
	ErrResponseNotFound    = errors.New("test response not found")
	ErrInvitationNotFound  = errors.New("no invitation for this candidate")
	ErrInvitationExpired   = errors.New("test link has expired")
	ErrInvitationCompleted = errors.New("test already completed")
	ErrSessionNotFound     = errors.New("exam session not found")
	ErrReportsDisabled     = errors.New("report storage not configured")
	ErrDeliveryFailed      = errors.New("failed to send test")
)
