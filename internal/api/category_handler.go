package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/todofast-api/internal/api/shared"
	"github.com/phrazzld/todofast-api/internal/service"
)

// CategoryHandler handles category requests for the authenticated user.
type CategoryHandler struct {
	categories service.CategoryService
	logger     *slog.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categories service.CategoryService, logger *slog.Logger) (*CategoryHandler, error) {
	if categories == nil {
		return nil, errors.New("category service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryHandler{
		categories: categories,
		logger:     logger.With(slog.String("component", "category_handler")),
	}, nil
}

// Create handles POST /categories/create.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := getUserFromContext(w, r)
	if !ok {
		return
	}

	var req CreateCategoryRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	category, err := h.categories.CreateCategory(r.Context(), user.ID, req.Name, req.Color)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, categoryToResponse(category))
}

// List handles GET /categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := getUserFromContext(w, r)
	if !ok {
		return
	}

	categories, err := h.categories.ListCategories(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, categoriesToResponse(categories))
}
