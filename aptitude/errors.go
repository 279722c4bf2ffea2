package aptitude

import "errors"

var (
	ErrInvalidQuestion               = errors.New("invalid question")
	ErrEmptyTest                     = errors.New("test has no questions")
	ErrAssignmentTitleRequired       = errors.New("assignment title is required")
	ErrAssignmentDescriptionRequired = errors.New("assignment description is required")
	ErrCandidateNameRequired         = errors.New("candidate name is required")
	ErrInvalidTransition             = errors.New("action not allowed in current exam state")
	ErrUnknownQuestion               = errors.New("question is not part of this test")
	ErrNotCurrentQuestion            = errors.New("only the current question can be answered")
	ErrAlreadyCompleted              = errors.New("test has already been submitted")
	ErrTestUnavailable               = errors.New("test could not be loaded")
	ErrInvalidTestConfig             = errors.New("invalid test configuration")
)
