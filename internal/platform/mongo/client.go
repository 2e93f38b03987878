package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	usersCollection      = "users"
	tasksCollection      = "tasks"
	categoriesCollection = "categories"
	countersCollection   = "counters"
)

// Unique index names. The duplicate key message carries the index name,
// which is how a violation is attributed to a field.
const (
	indexUsersEmail         = "users_email_key"
	indexUsersUsername      = "users_username_key"
	indexCategoriesOwnerKey = "categories_owner_id_name_key"
)

const connectTimeout = 10 * time.Second

// DB bundles a connected client and the application database.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
}

// Connect opens a client for uri, verifies it with a ping and selects the
// named database.
func Connect(ctx context.Context, uri, database string, logger *slog.Logger) (*DB, error) {
	if uri == "" {
		return nil, errors.New("mongo uri cannot be empty")
	}
	if database == "" {
		return nil, errors.New("mongo database name cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &DB{
		client: client,
		db:     client.Database(database),
		logger: logger.With(slog.String("component", "mongo")),
	}, nil
}

// Ping checks that the server is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique and ordering indexes the stores rely on.
// It is idempotent.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		usersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName(indexUsersEmail),
			},
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetUnique(true).SetName(indexUsersUsername),
			},
		},
		categoriesCollection: {
			{
				Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "name", Value: 1}},
				Options: options.Index().SetUnique(true).SetName(indexCategoriesOwnerKey),
			},
			{
				Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "seq", Value: 1}},
				Options: options.Index().SetName("categories_owner_id_seq_idx"),
			},
		},
		tasksCollection: {
			{
				Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "seq", Value: 1}},
				Options: options.Index().SetName("tasks_owner_id_seq_idx"),
			},
		},
	}

	for collection, models := range specs {
		names, err := d.db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
		d.logger.DebugContext(ctx, "indexes ensured",
			slog.String("collection", collection),
			slog.Any("indexes", names))
	}
	return nil
}

// nextSequence atomically increments and returns the counter for name.
func nextSequence(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: name}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(1)}}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s sequence: %w", name, err)
	}
	return counter.Seq, nil
}

// Users returns the user repository backed by this database.
func (d *DB) Users() *UserStore {
	return &UserStore{coll: d.db.Collection(usersCollection), logger: d.logger.With(slog.String("store", "users"))}
}

// Tasks returns the task repository backed by this database.
func (d *DB) Tasks() *TaskStore {
	return &TaskStore{db: d.db, coll: d.db.Collection(tasksCollection), logger: d.logger.With(slog.String("store", "tasks"))}
}

// Categories returns the category repository backed by this database.
func (d *DB) Categories() *CategoryStore {
	return &CategoryStore{
		db:     d.db,
		coll:   d.db.Collection(categoriesCollection),
		logger: d.logger.With(slog.String("store", "categories")),
	}
}
