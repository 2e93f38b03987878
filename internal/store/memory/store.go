package memory

import (
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/todofast-api/internal/domain"
	"github.com/phrazzld/todofast-api/internal/store"
)

// Store holds users, tasks and categories in memory. Its repository views
// share one lock so uniqueness checks and inserts are atomic.
type Store struct {
	mu sync.RWMutex

	users        map[uuid.UUID]*domain.User
	usersByEmail map[string]uuid.UUID
	usersByName  map[string]uuid.UUID

	tasks     map[uuid.UUID]*domain.Task
	taskOrder []uuid.UUID

	categories     map[uuid.UUID]*domain.Category
	categoryOrder  []uuid.UUID
	categoryByName map[categoryKey]uuid.UUID
}

type categoryKey struct {
	owner uuid.UUID
	name  string
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		users:          make(map[uuid.UUID]*domain.User),
		usersByEmail:   make(map[string]uuid.UUID),
		usersByName:    make(map[string]uuid.UUID),
		tasks:          make(map[uuid.UUID]*domain.Task),
		categories:     make(map[uuid.UUID]*domain.Category),
		categoryByName: make(map[categoryKey]uuid.UUID),
	}
}

// Users returns the user repository backed by s.
func (s *Store) Users() *UserStore { return &UserStore{s: s} }

// Tasks returns the task repository backed by s.
func (s *Store) Tasks() *TaskStore { return &TaskStore{s: s} }

// Categories returns the category repository backed by s.
func (s *Store) Categories() *CategoryStore { return &CategoryStore{s: s} }

var (
	_ store.UserRepository     = (*UserStore)(nil)
	_ store.TaskRepository     = (*TaskStore)(nil)
	_ store.CategoryRepository = (*CategoryStore)(nil)
)

func cloneUser(u *domain.User) *domain.User {
	c := *u
	if u.FirstName != nil {
		v := *u.FirstName
		c.FirstName = &v
	}
	if u.LastName != nil {
		v := *u.LastName
		c.LastName = &v
	}
	return &c
}

func cloneTask(t *domain.Task) *domain.Task {
	c := *t
	if t.CategoryID != nil {
		v := *t.CategoryID
		c.CategoryID = &v
	}
	return &c
}

func cloneCategory(cat *domain.Category) *domain.Category {
	c := *cat
	return &c
}
