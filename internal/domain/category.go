package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DefaultCategoryColor is applied when a category is created without a colour.
const DefaultCategoryColor = "#3498db"

// CategoryNameMaxLength bounds category names.
const CategoryNameMaxLength = 50

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Category is a labelled grouping of tasks owned by exactly one user.
// The (OwnerID, Name) pair is unique.
type Category struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"-"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"-"`
}

// NewCategory creates a validated category for owner. A nil color selects
// DefaultCategoryColor.
func NewCategory(ownerID uuid.UUID, name string, color *string) (*Category, error) {
	c := &Category{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(name),
		Color:     DefaultCategoryColor,
		CreatedAt: time.Now().UTC(),
	}
	if color != nil {
		c.Color = *color
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if c.OwnerID == uuid.Nil {
		return NewValidationError("owner", "cannot be empty", ErrInvalidID)
	}
	n := utf8.RuneCountInString(c.Name)
	if n == 0 || n > CategoryNameMaxLength {
		return NewValidationError("name", "must be between 1 and 50 characters", nil)
	}
	if !hexColorPattern.MatchString(c.Color) {
		return NewValidationError("color", "must be a hex colour such as #3498db", nil)
	}
	return nil
}
