package app

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrGeneratorNotConfigured = errors.New("llm api key not configured")
	ErrClinicSessionNotFound  = errors.New("clinic session not found")
	ErrCommentNotFound        = errors.New("comment not found")
	ErrParentCommentNotFound  = errors.New("parent comment not found")
)
