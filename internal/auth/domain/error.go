package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidSession     = errors.New("invalid_session")
	ErrSessionExpired     = errors.New("session_expired")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrUserExists         = errors.New("user_already_exists")
	ErrUserInactive       = errors.New("user_inactive")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidRole        = errors.New("invalid_role")
	ErrWeakPassword       = errors.New("weak_password")
	ErrInvalidClinic      = errors.New("invalid_clinic")
)
