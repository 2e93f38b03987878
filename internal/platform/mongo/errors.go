package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/todofast-api/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
)

// duplicateIndexErrors maps unique index names to store sentinels.
var duplicateIndexErrors = map[string]error{
	indexUsersEmail:         store.ErrEmailExists,
	indexUsersUsername:      store.ErrUsernameExists,
	indexCategoriesOwnerKey: store.ErrCategoryExists,
}

// MapError translates driver errors into store sentinels. Context errors
// and nil pass through unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}
	if mongo.IsDuplicateKeyError(err) {
		msg := err.Error()
		for index, sentinel := range duplicateIndexErrors {
			if strings.Contains(msg, index) {
				return fmt.Errorf("%w: %w", sentinel, err)
			}
		}
		return fmt.Errorf("%w: %w", store.ErrDuplicate, err)
	}
	return fmt.Errorf("mongo: %w", err)
}
