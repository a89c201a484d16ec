package service

import "errors"

var (
	// ErrFormNotFound is returned when no form exists for the given id.
	ErrFormNotFound = errors.New("form not found")
	// ErrNotOwner is returned when the actor does not own the form.
	ErrNotOwner = errors.New("form is owned by another user")
	// ErrNotPublished is returned when no live snapshot exists for the form.
	ErrNotPublished = errors.New("form is not published")
	// ErrSubmissionNotFound is returned when no submission exists for the given id.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrContentCorrupted is returned when stored content fails to decode.
	ErrContentCorrupted = errors.New("form content is corrupted")
)
