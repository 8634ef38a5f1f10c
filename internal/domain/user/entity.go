// Package user defines the user domain entity
package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents an account that authors recipes and holds relations.
type User struct {
	id           uuid.UUID
	email        string
	username     string
	firstName    string
	lastName     string
	passwordHash string
	createdAt    time.Time
}

// NewUser creates a new user with validation
func NewUser(email, username, firstName, lastName, password string, cost int) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	if err := validateUsername(username); err != nil {
		return nil, err
	}

	if err := validatePassword(password); err != nil {
		return nil, err
	}

	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, ErrPasswordHash
	}

	return &User{
		id:           uuid.New(),
		email:        strings.ToLower(email),
		username:     username,
		firstName:    firstName,
		lastName:     lastName,
		passwordHash: string(hashedPassword),
		createdAt:    time.Now(),
	}, nil
}

// Reconstitute rebuilds a user from persisted state without validation.
func Reconstitute(id uuid.UUID, email, username, firstName, lastName, passwordHash string, createdAt time.Time) *User {
	return &User{
		id:           id,
		email:        email,
		username:     username,
		firstName:    firstName,
		lastName:     lastName,
		passwordHash: passwordHash,
		createdAt:    createdAt,
	}
}

// ID returns the user's unique identifier
func (u *User) ID() uuid.UUID {
	return u.id
}

// Email returns the user's email
func (u *User) Email() string {
	return u.email
}

// Username returns the user's handle
func (u *User) Username() string {
	return u.username
}

// FirstName returns the user's first name
func (u *User) FirstName() string {
	return u.firstName
}

// LastName returns the user's last name
func (u *User) LastName() string {
	return u.lastName
}

// PasswordHash returns the stored bcrypt hash
func (u *User) PasswordHash() string {
	return u.passwordHash
}

// CreatedAt returns when the user was created
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// CheckPassword verifies a password against the stored hash
func (u *User) CheckPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	if len(email) > 254 {
		return ErrEmailTooLong
	}
	return nil
}

func validateUsername(username string) error {
	if username == "" {
		return ErrUsernameRequired
	}
	if len(username) > 150 {
		return ErrUsernameTooLong
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	// bcrypt truncates beyond 72 bytes
	if len(password) > 72 {
		return ErrPasswordTooLong
	}
	return nil
}
