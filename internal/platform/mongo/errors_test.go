package mongo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/todofast-api/internal/store"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func duplicateKeyError(index string) error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{
			Code:    11000,
			Message: fmt.Sprintf("E11000 duplicate key error collection: todofast.x index: %s dup key: { }", index),
		}},
	}
}

func TestMapError(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no documents", mongo.ErrNoDocuments, store.ErrNotFound},
		{"duplicate email", duplicateKeyError(indexUsersEmail), store.ErrEmailExists},
		{"duplicate username", duplicateKeyError(indexUsersUsername), store.ErrUsernameExists},
		{"duplicate category", duplicateKeyError(indexCategoriesOwnerKey), store.ErrCategoryExists},
		{"duplicate id", duplicateKeyError("_id_"), store.ErrDuplicate},
		{"context canceled", context.Canceled, context.Canceled},
		{"other", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, MapError(tt.err), tt.want)
		})
	}

	assert.NoError(t, MapError(nil))
	assert.False(t, store.IsDuplicateError(MapError(other)))
	assert.False(t, store.IsNotFoundError(MapError(other)))
	assert.Equal(t, context.DeadlineExceeded, MapError(context.DeadlineExceeded))
}

func TestMapError_DuplicateIDIsNotAttributedToAField(t *testing.T) {
	err := MapError(duplicateKeyError("_id_"))
	assert.NotErrorIs(t, err, store.ErrEmailExists)
	assert.NotErrorIs(t, err, store.ErrUsernameExists)
	assert.NotErrorIs(t, err, store.ErrCategoryExists)
}
