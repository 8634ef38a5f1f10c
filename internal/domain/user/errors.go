package user

import "errors"

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrEmailTooLong     = errors.New("email too long")
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameTooLong  = errors.New("username too long")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong  = errors.New("password too long")
	ErrPasswordHash     = errors.New("failed to hash password")
	ErrInvalidPassword  = errors.New("invalid password")

	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("a user with this email or username already exists")
)
