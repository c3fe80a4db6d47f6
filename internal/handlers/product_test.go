package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/confeitaria/internal/storage"
	"github.com/diewo77/confeitaria/internal/store"
)

func setupStores(t *testing.T) (*store.ProductStore, *store.OrderStore) {
	t.Helper()
	fs, err := storage.NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new filesystem: %v", err)
	}
	ctx := context.Background()
	products, err := store.LoadProducts(ctx, fs)
	if err != nil {
		t.Fatalf("load products: %v", err)
	}
	orders, err := store.LoadOrders(ctx, fs)
	if err != nil {
		t.Fatalf("load orders: %v", err)
	}
	t.Cleanup(func() {
		_ = products.Close(ctx)
		_ = orders.Close(ctx)
	})
	return products, orders
}

func TestProductCreateAndList(t *testing.T) {
	products, _ := setupStores(t)
	h := NewProductHandler(products, nil)

	body := `{"name":"Bolo de Chocolate","price":"45,00","description":"","icon":"cake","category":"Bolos"}`
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", w.Code, w.Body.String())
	}

	req2 := httptest.NewRequest(http.MethodGet, "/products", nil)
	w2 := httptest.NewRecorder()
	h.List(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w2.Code)
	}
	var payload struct {
		Items []struct {
			ID             string `json:"id"`
			Name           string `json:"name"`
			Price          int64  `json:"price"`
			PriceFormatted string `json:"priceFormatted"`
		} `json:"items"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Total != 1 || len(payload.Items) != 1 {
		t.Fatalf("expected 1 product, got %+v", payload)
	}
	got := payload.Items[0]
	if got.Name != "Bolo de Chocolate" || got.Price != 4500 {
		t.Fatalf("unexpected product: %+v", got)
	}
	if got.PriceFormatted != "R$ 45,00" {
		t.Fatalf("priceFormatted = %q", got.PriceFormatted)
	}
}

func TestProductCreateValidation(t *testing.T) {
	products, _ := setupStores(t)
	h := NewProductHandler(products, nil)

	body := `{"name":"","price":"abc","category":"Inexistente"}`
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	var resp struct {
		Error      string            `json:"error"`
		Violations map[string]string `json:"violations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "invalid_fields" {
		t.Fatalf("error = %q", resp.Error)
	}
	for _, field := range []string{"name", "price", "category"} {
		if _, ok := resp.Violations[field]; !ok {
			t.Errorf("missing violation for %q: %v", field, resp.Violations)
		}
	}
}

func TestProductUnknownIconFallsBack(t *testing.T) {
	products, _ := setupStores(t)
	h := NewProductHandler(products, nil)

	body := `{"name":"Café","price":"8,00","icon":"rocket","category":"Doces"}`
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", w.Code, w.Body.String())
	}
	var got struct {
		Icon string `json:"icon"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Icon != "cake" {
		t.Fatalf("icon = %q, want fallback cake", got.Icon)
	}
}

func TestProductGetNotFound(t *testing.T) {
	products, _ := setupStores(t)
	h := NewProductHandler(products, nil)

	req := httptest.NewRequest(http.MethodGet, "/products/get?id=missing", nil)
	w := httptest.NewRecorder()
	h.Get(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestCategoryCreateAndList(t *testing.T) {
	products, _ := setupStores(t)
	h := NewCategoryHandler(products, nil)

	req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(`{"name":"Salgados"}`))
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", w.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/categories", nil)
	w2 := httptest.NewRecorder()
	h.List(w2, req2)
	var payload struct {
		Items []string `json:"items"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Items) != 5 || payload.Items[4] != "Salgados" {
		t.Fatalf("categories = %v", payload.Items)
	}
}
