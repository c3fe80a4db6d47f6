package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/diewo77/confeitaria/internal/httpx"
	"github.com/diewo77/confeitaria/internal/store"
	"github.com/diewo77/confeitaria/internal/validation"
)

type CategoryHandler struct {
	store  *store.ProductStore
	report WriteReporter
}

func NewCategoryHandler(s *store.ProductStore, r WriteReporter) *CategoryHandler {
	return &CategoryHandler{store: s, report: r}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"items": h.store.Categories()})
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	if !v.Empty() {
		httpx.JSONViolations(w, v)
		return
	}
	pending, err := h.store.AddCategory(input.Name)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_fields", map[string]string{"name": err.Error()})
		return
	}
	report(h.report, pending)
	httpx.JSON(w, http.StatusCreated, map[string]any{"items": h.store.Categories()})
}
