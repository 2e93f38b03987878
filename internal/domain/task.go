package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Length limits for task fields.
const (
	TaskTitleMinLength       = 3
	TaskTitleMaxLength       = 100
	TaskDescriptionMaxLength = 500
)

// DefaultTaskListLimit is used when a list request does not specify a limit.
const DefaultTaskListLimit = 10

// Task is a unit of work owned by exactly one user, optionally tagged with
// one of that user's categories. OwnerID never changes after creation.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"-"`
	CategoryID  *uuid.UUID `json:"category"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      bool       `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates a pending task for owner.
func NewTask(ownerID uuid.UUID, title, description string, categoryID *uuid.UUID) (*Task, error) {
	now := time.Now().UTC()
	t := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		CategoryID:  categoryID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Status:      false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if t.OwnerID == uuid.Nil {
		return NewValidationError("owner", "cannot be empty", ErrInvalidID)
	}
	if err := validateTitle(t.Title); err != nil {
		return err
	}
	if err := validateDescription(t.Description); err != nil {
		return err
	}
	if t.CategoryID != nil && *t.CategoryID == uuid.Nil {
		return NewValidationError("category", "cannot be the nil ID", ErrInvalidID)
	}
	return nil
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < TaskTitleMinLength || n > TaskTitleMaxLength {
		return NewValidationError("title", "must be between 3 and 100 characters", nil)
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > TaskDescriptionMaxLength {
		return NewValidationError("description", "must be at most 500 characters", nil)
	}
	return nil
}

// TaskPatch carries a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *bool
}

// Validate checks only the fields present in the patch.
func (p TaskPatch) Validate() error {
	if p.Title != nil {
		if err := validateTitle(strings.TrimSpace(*p.Title)); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := validateDescription(*p.Description); err != nil {
			return err
		}
	}
	return nil
}

// Apply copies the present fields of p onto t and stamps UpdatedAt with now.
// UpdatedAt is refreshed even when the patch is empty.
func (t *Task) Apply(p TaskPatch, now time.Time) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	t.UpdatedAt = now.UTC()
	return nil
}

// TaskFilter narrows a task listing. The owner is always applied separately
// by the caller; a filter never widens visibility beyond one owner.
type TaskFilter struct {
	Status        *bool
	TitleContains string
	Limit         int
	Skip          int
}

// Validate rejects negative pagination values.
func (f TaskFilter) Validate() error {
	if f.Limit < 0 {
		return NewValidationError("limit", "cannot be negative", nil)
	}
	if f.Skip < 0 {
		return NewValidationError("skip", "cannot be negative", nil)
	}
	return nil
}

// Matches reports whether t satisfies the status and title criteria.
// Title matching is a case-insensitive substring test.
func (f TaskFilter) Matches(t *Task) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.TitleContains != "" &&
		!strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.TitleContains)) {
		return false
	}
	return true
}
