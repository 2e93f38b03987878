package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func lookup(d bson.D, key string) (any, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

func TestBuildListQuery(t *testing.T) {
	owner := uuid.New()
	done := true

	t.Run("owner only", func(t *testing.T) {
		query, opts := buildListQuery(owner, domain.TaskFilter{})
		assert.Equal(t, bson.D{{Key: "owner_id", Value: owner.String()}}, query)
		assert.Nil(t, opts.Limit)
		assert.Nil(t, opts.Skip)
		assert.Equal(t, bson.D{{Key: "seq", Value: 1}}, opts.Sort)
	})

	t.Run("all criteria", func(t *testing.T) {
		query, opts := buildListQuery(owner, domain.TaskFilter{
			Status:        &done,
			TitleContains: "a.b*",
			Limit:         5,
			Skip:          2,
		})

		status, ok := lookup(query, "status")
		require.True(t, ok)
		assert.Equal(t, true, status)

		title, ok := lookup(query, "title")
		require.True(t, ok)
		assert.Equal(t, primitive.Regex{Pattern: `a\.b\*`, Options: "i"}, title)

		require.NotNil(t, opts.Limit)
		require.NotNil(t, opts.Skip)
		assert.Equal(t, int64(5), *opts.Limit)
		assert.Equal(t, int64(2), *opts.Skip)
	})
}

func TestTaskDocumentRoundTrip(t *testing.T) {
	category := uuid.New()
	task, err := domain.NewTask(uuid.New(), "Write report", "quarterly", &category)
	require.NoError(t, err)

	doc := newTaskDocument(task, 7)
	assert.Equal(t, int64(7), doc.Seq)
	require.NotNil(t, doc.CategoryID)
	assert.Equal(t, category.String(), *doc.CategoryID)

	got, err := doc.toDomain()
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, task.OwnerID, got.OwnerID)
	assert.Equal(t, category, *got.CategoryID)
	assert.Equal(t, task.Title, got.Title)

	doc.OwnerID = "not-a-uuid"
	_, err = doc.toDomain()
	assert.Error(t, err)
}

func TestConnect_RejectsEmptyArguments(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := Connect(ctx, "", "todofast", nil)
	assert.Error(t, err)
	_, err = Connect(ctx, "mongodb://localhost:27017", "", nil)
	assert.Error(t, err)
}
