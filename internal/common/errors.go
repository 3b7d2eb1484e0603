package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Memoir errors
	ErrMemoirNotFound  = errors.New("memoir not found")
	ErrChapterNotFound = errors.New("chapter not found")

	// Collaboration errors
	ErrCollaborationNotFound = errors.New("collaboration not found")
	ErrAlreadyInvited        = errors.New("user already invited")
	ErrSelfInvite            = errors.New("cannot invite yourself")
	ErrInvitationResolved    = errors.New("invitation already resolved")

	// Community errors
	ErrCommentNotFound = errors.New("comment not found")
	ErrAlreadyLiked    = errors.New("memoir already liked")
	ErrNotLiked        = errors.New("memoir not liked")

	// Service request / publish order errors
	ErrRequestNotFound   = errors.New("service request not found")
	ErrOrderNotFound     = errors.New("publish order not found")
	ErrInvalidTransition = errors.New("invalid status transition")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)
