package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diewo77/confeitaria/internal/httpx"
	"github.com/diewo77/confeitaria/internal/models"
	"github.com/diewo77/confeitaria/internal/money"
	"github.com/diewo77/confeitaria/internal/store"
	"github.com/diewo77/confeitaria/internal/validation"
)

type ProductHandler struct {
	store  *store.ProductStore
	report WriteReporter
}

func NewProductHandler(s *store.ProductStore, r WriteReporter) *ProductHandler {
	return &ProductHandler{store: s, report: r}
}

// productView decorates a product with its display price.
type productView struct {
	models.Product
	PriceFormatted string `json:"priceFormatted"`
}

func newProductView(p models.Product) productView {
	return productView{Product: p, PriceFormatted: p.Price.Format()}
}

type productInput struct {
	Name        string `json:"name"`
	Price       string `json:"price"` // decimal string, e.g. "45,00"
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.store.Products()
	views := make([]productView, 0, len(items))
	for _, p := range items {
		views = append(views, newProductView(p))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": views, "total": len(views)})
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.ProductByID(r.URL.Query().Get("id"))
	if errors.Is(err, store.ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "product_not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, newProductView(p))
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	validation.Required("category", input.Category, v)
	price, err := money.Parse(input.Price)
	if err != nil {
		v["price"] = "invalid_amount"
	} else {
		validation.NonNegativeAmount("price", price.Centavos(), v)
	}
	if input.Category != "" {
		validation.OneOf("category", input.Category, h.store.Categories(), v)
	}
	if !v.Empty() {
		httpx.JSONViolations(w, v)
		return
	}

	p, pending, err := h.store.AddProduct(store.ProductFields{
		Name:        input.Name,
		Price:       price,
		Description: input.Description,
		Icon:        models.ParseIcon(input.Icon),
		Category:    input.Category,
	})
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_fields", map[string]string{"error": err.Error()})
		return
	}
	report(h.report, pending)
	httpx.JSON(w, http.StatusCreated, newProductView(p))
}

type productPatchInput struct {
	Name        *string `json:"name"`
	Price       *string `json:"price"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Category    *string `json:"category"`
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	var input productPatchInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	patch := store.ProductPatch{
		Name:        input.Name,
		Description: input.Description,
	}
	if input.Price != nil {
		price, err := money.Parse(*input.Price)
		if err != nil {
			v["price"] = "invalid_amount"
		} else {
			validation.NonNegativeAmount("price", price.Centavos(), v)
			patch.Price = &price
		}
	}
	if input.Name != nil {
		validation.Required("name", *input.Name, v)
	}
	if input.Icon != nil {
		ic := models.ParseIcon(*input.Icon)
		patch.Icon = &ic
	}
	if input.Category != nil {
		validation.Required("category", *input.Category, v)
		validation.OneOf("category", *input.Category, h.store.Categories(), v)
		patch.Category = input.Category
	}
	if !v.Empty() {
		httpx.JSONViolations(w, v)
		return
	}

	pending, err := h.store.UpdateProduct(id, patch)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_fields", map[string]string{"error": err.Error()})
		return
	}
	report(h.report, pending)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Delete hard-deletes a product. Existing orders keep their captured prices,
// so this never cascades; the client shows its own confirmation dialog first.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	report(h.report, h.store.DeleteProduct(id))
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Icons lists the closed icon set for the product form's picker.
func (h *ProductHandler) Icons(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"items": models.Icons(), "fallback": models.IconFallback})
}
