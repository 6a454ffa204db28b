package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/stockroom/internal/apperr"
	"github.com/erazemk/stockroom/internal/logger"
	"github.com/erazemk/stockroom/internal/model"
	"github.com/erazemk/stockroom/internal/validate"
)

// ItemRepository is the storage the item endpoints need.
type ItemRepository interface {
	List(ctx context.Context) ([]model.Item, error)
	Get(ctx context.Context, id int64) (*model.Item, error)
	Create(ctx context.Context, in model.ItemInput) (*model.Item, error)
	Update(ctx context.Context, id int64, in model.ItemInput) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (model.ItemStats, error)
}

// ItemsHandler handles item CRUD endpoints.
type ItemsHandler struct {
	Items  ItemRepository
	Logger *logger.Logger
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Items.List(r.Context())
	if err != nil {
		writeError(r.Context(), h.Logger, w, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeItem(w, r)
	if !ok {
		return
	}

	item, err := h.Items.Create(r.Context(), in)
	if err != nil {
		writeError(r.Context(), h.Logger, w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	item, err := h.Items.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Logger, w, err)
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}. The body replaces every field.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	in, ok := h.decodeItem(w, r)
	if !ok {
		return
	}

	if err := h.Items.Update(r.Context(), id, in); err != nil {
		writeError(r.Context(), h.Logger, w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "Item updated successfully"})
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	if err := h.Items.Delete(r.Context(), id); err != nil {
		writeError(r.Context(), h.Logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/stats.
func (h *ItemsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Items.Stats(r.Context())
	if err != nil {
		writeError(r.Context(), h.Logger, w, err)
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

func (h *ItemsHandler) decodeItem(w http.ResponseWriter, r *http.Request) (model.ItemInput, bool) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(r.Context(), h.Logger, w, err)
		return model.ItemInput{}, false
	}

	in, messages := validate.Item(body)
	if len(messages) > 0 {
		writeError(r.Context(), h.Logger, w, apperr.Validation(messages))
		return model.ItemInput{}, false
	}
	return in, true
}

func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return 0, false
	}
	return id, true
}
