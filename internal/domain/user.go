package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Length limits for user credentials.
const (
	UsernameMinLength = 5
	UsernameMaxLength = 50
	PasswordMinLength = 5
	PasswordMaxLength = 20

	// PasswordMaxBytes is bcrypt's input limit.
	PasswordMaxBytes = 72
)

var validate = validator.New()

// User represents a registered user of the task manager.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	FirstName      *string   `json:"first_name"`
	LastName       *string   `json:"last_name"`
	Disabled       bool      `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser creates a new User with a fresh random ID and creation timestamp.
// The password must already be hashed; the plaintext never reaches the entity.
// Emails are normalised to lower case so uniqueness is case-insensitive.
func NewUser(username, email, hashedPassword string) (*User, error) {
	user := &User{
		ID:             uuid.New(),
		Username:       strings.TrimSpace(username),
		Email:          NormalizeEmail(email),
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}

	n := utf8.RuneCountInString(u.Username)
	if n < UsernameMinLength || n > UsernameMaxLength {
		return NewValidationError("username", "must be between 5 and 50 characters", nil)
	}

	if err := ValidateEmail(u.Email); err != nil {
		return err
	}

	if u.HashedPassword == "" {
		return NewValidationError("password", "hash cannot be empty", nil)
	}

	return nil
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail reports whether email is a syntactically valid address.
func ValidateEmail(email string) error {
	if email == "" {
		return NewValidationError("email", "cannot be empty", nil)
	}
	if err := validate.Var(email, "email"); err != nil {
		return NewValidationError("email", "invalid email format", nil)
	}
	return nil
}

// ValidatePassword checks the plaintext password length rules applied at registration.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < PasswordMinLength || n > PasswordMaxLength {
		return NewValidationError("password", "must be between 5 and 20 characters", nil)
	}
	if len(password) > PasswordMaxBytes {
		return NewValidationError("password", "must be at most 72 bytes", nil)
	}
	return nil
}
