package mongo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/domain"
)

type userDocument struct {
	ID             string    `bson:"_id"`
	Username       string    `bson:"username"`
	Email          string    `bson:"email"`
	HashedPassword string    `bson:"hashed_password"`
	FirstName      *string   `bson:"first_name,omitempty"`
	LastName       *string   `bson:"last_name,omitempty"`
	Disabled       bool      `bson:"disabled"`
	CreatedAt      time.Time `bson:"created_at"`
}

type categoryDocument struct {
	ID        string    `bson:"_id"`
	Seq       int64     `bson:"seq"`
	OwnerID   string    `bson:"owner_id"`
	Name      string    `bson:"name"`
	Color     string    `bson:"color"`
	CreatedAt time.Time `bson:"created_at"`
}

type taskDocument struct {
	ID          string    `bson:"_id"`
	Seq         int64     `bson:"seq"`
	Version     int64     `bson:"version"`
	OwnerID     string    `bson:"owner_id"`
	CategoryID  *string   `bson:"category_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Status      bool      `bson:"status"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func newUserDocument(u *domain.User) userDocument {
	return userDocument{
		ID:             u.ID.String(),
		Username:       u.Username,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Disabled:       u.Disabled,
		CreatedAt:      u.CreatedAt.UTC(),
	}
}

func (d userDocument) toDomain() (*domain.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt user id %q: %w", d.ID, err)
	}
	return &domain.User{
		ID:             id,
		Username:       d.Username,
		Email:          d.Email,
		HashedPassword: d.HashedPassword,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Disabled:       d.Disabled,
		CreatedAt:      d.CreatedAt.UTC(),
	}, nil
}

func newCategoryDocument(c *domain.Category, seq int64) categoryDocument {
	return categoryDocument{
		ID:        c.ID.String(),
		Seq:       seq,
		OwnerID:   c.OwnerID.String(),
		Name:      c.Name,
		Color:     c.Color,
		CreatedAt: c.CreatedAt.UTC(),
	}
}

func (d categoryDocument) toDomain() (*domain.Category, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt category id %q: %w", d.ID, err)
	}
	owner, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("corrupt category owner %q: %w", d.OwnerID, err)
	}
	return &domain.Category{
		ID:        id,
		OwnerID:   owner,
		Name:      d.Name,
		Color:     d.Color,
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}

func newTaskDocument(t *domain.Task, seq int64) taskDocument {
	doc := taskDocument{
		ID:          t.ID.String(),
		Seq:         seq,
		OwnerID:     t.OwnerID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
	if t.CategoryID != nil {
		s := t.CategoryID.String()
		doc.CategoryID = &s
	}
	return doc
}

func (d taskDocument) toDomain() (*domain.Task, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt task id %q: %w", d.ID, err)
	}
	owner, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("corrupt task owner %q: %w", d.OwnerID, err)
	}
	t := &domain.Task{
		ID:          id,
		OwnerID:     owner,
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	if d.CategoryID != nil {
		cat, err := uuid.Parse(*d.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("corrupt task category %q: %w", *d.CategoryID, err)
		}
		t.CategoryID = &cat
	}
	return t, nil
}
