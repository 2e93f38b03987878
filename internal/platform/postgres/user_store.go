package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/domain"
	"github.com/phrazzld/todofast-api/internal/platform/logger"
	"github.com/phrazzld/todofast-api/internal/redact"
	"github.com/phrazzld/todofast-api/internal/store"
)

// UserStore implements store.UserRepository on PostgreSQL. Email and
// username uniqueness are enforced by the users table constraints.
type UserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.UserRepository = (*UserStore)(nil)

// NewUserStore creates a UserStore. It returns an error if db is nil.
func NewUserStore(db store.DBTX, logger *slog.Logger) (*UserStore, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}, nil
}

const userColumns = `id, username, email, hashed_password, first_name, last_name, disabled, created_at`

// Create implements store.UserRepository.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user.Email = domain.NormalizeEmail(user.Email)
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID,
		user.Username,
		user.Email,
		user.HashedPassword,
		user.FirstName,
		user.LastName,
		user.Disabled,
		user.CreatedAt,
	)
	if err != nil {
		err = MapError(err)
		if !store.IsDuplicateError(err) {
			log.Error("failed to create user",
				slog.String("error", redact.Error(err)),
				slog.String("user_id", user.ID.String()))
		}
		return err
	}

	log.Debug("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserRepository.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return s.scan(ctx, row)
}

// FindByEmail implements store.UserRepository.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, domain.NormalizeEmail(email))
	return s.scan(ctx, row)
}

func (s *UserStore) scan(ctx context.Context, row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.HashedPassword,
		&u.FirstName,
		&u.LastName,
		&u.Disabled,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load user",
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
