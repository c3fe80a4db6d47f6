package store

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/diewo77/confeitaria/internal/models"
	"github.com/diewo77/confeitaria/internal/storage"
)

func newProductStore(t *testing.T) (*ProductStore, storage.RecordStore) {
	t.Helper()
	fs, err := storage.NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new filesystem: %v", err)
	}
	s, err := LoadProducts(context.Background(), fs)
	if err != nil {
		t.Fatalf("load products: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s, fs
}

func mustAddProduct(t *testing.T, s *ProductStore, f ProductFields) models.Product {
	t.Helper()
	p, pending, err := s.AddProduct(f)
	if err != nil {
		t.Fatalf("add product: %v", err)
	}
	if err := pending.Wait(context.Background()); err != nil {
		t.Fatalf("durable write: %v", err)
	}
	return p
}

func TestAddProductAssignsUniqueIDs(t *testing.T) {
	s, _ := newProductStore(t)
	seen := map[string]struct{}{}
	for i := 0; i < 20; i++ {
		p := mustAddProduct(t, s, ProductFields{Name: "Brigadeiro", Price: 250, Category: "Doces"})
		if p.ID == "" {
			t.Fatal("empty id")
		}
		if _, dup := seen[p.ID]; dup {
			t.Fatalf("duplicate id %s", p.ID)
		}
		seen[p.ID] = struct{}{}
		if p.CreatedAt == 0 {
			t.Fatal("createdAt not assigned")
		}
	}
	if got := len(s.Products()); got != 20 {
		t.Fatalf("expected 20 products, got %d", got)
	}
}

func TestAddProductValidation(t *testing.T) {
	s, _ := newProductStore(t)
	if _, _, err := s.AddProduct(ProductFields{Name: "  ", Price: 100}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("empty name: expected ErrInvalid, got %v", err)
	}
	if _, _, err := s.AddProduct(ProductFields{Name: "Torta", Price: -1}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("negative price: expected ErrInvalid, got %v", err)
	}
	if got := len(s.Products()); got != 0 {
		t.Fatalf("rejected adds must not change the catalog, got %d products", got)
	}
}

func TestAddProductIconFallback(t *testing.T) {
	s, _ := newProductStore(t)
	p := mustAddProduct(t, s, ProductFields{Name: "Café", Price: 800, Icon: "rocket"})
	if p.Icon != models.IconFallback {
		t.Fatalf("unknown icon should fall back, got %q", p.Icon)
	}
	p = mustAddProduct(t, s, ProductFields{Name: "Café", Price: 800, Icon: models.IconCoffee})
	if p.Icon != models.IconCoffee {
		t.Fatalf("known icon should be kept, got %q", p.Icon)
	}
}

func TestUpdateProductPartial(t *testing.T) {
	s, _ := newProductStore(t)
	p := mustAddProduct(t, s, ProductFields{Name: "Bolo de Cenoura", Price: 3500, Category: "Bolos"})

	newPrice := p.Price + 500
	pending, err := s.UpdateProduct(p.ID, ProductPatch{Price: &newPrice})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := pending.Wait(context.Background()); err != nil {
		t.Fatalf("durable write: %v", err)
	}

	got, err := s.ProductByID(p.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.Price != newPrice {
		t.Fatalf("price = %d, want %d", got.Price, newPrice)
	}
	if got.Name != p.Name || got.Category != p.Category {
		t.Fatal("untouched fields must survive a partial update")
	}
	if got.ID != p.ID || got.CreatedAt != p.CreatedAt {
		t.Fatal("id and createdAt are immutable")
	}
}

func TestUpdateProductUnknownIDIsNoOp(t *testing.T) {
	s, _ := newProductStore(t)
	mustAddProduct(t, s, ProductFields{Name: "Torta de Limão", Price: 5200})
	before := s.Products()

	name := "Outro"
	pending, err := s.UpdateProduct("missing", ProductPatch{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := pending.Wait(context.Background()); err != nil {
		t.Fatalf("pending: %v", err)
	}
	if !reflect.DeepEqual(before, s.Products()) {
		t.Fatal("update on unknown id must leave the catalog unchanged")
	}
}

func TestDeleteProduct(t *testing.T) {
	s, _ := newProductStore(t)
	p := mustAddProduct(t, s, ProductFields{Name: "Cupcake", Price: 900})
	if err := s.DeleteProduct(p.ID).Wait(context.Background()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.ProductByID(p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	// deleting again is a silent no-op
	if err := s.DeleteProduct(p.ID).Wait(context.Background()); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestCategories(t *testing.T) {
	s, _ := newProductStore(t)
	want := []string{"Bolos", "Tortas", "Doces", "Cupcakes"}
	if got := s.Categories(); !reflect.DeepEqual(got, want) {
		t.Fatalf("default categories = %v", got)
	}

	if _, err := s.AddCategory("Salgados"); err != nil {
		t.Fatalf("add category: %v", err)
	}
	// exact duplicate is rejected silently
	if _, err := s.AddCategory("Salgados"); err != nil {
		t.Fatalf("duplicate add: %v", err)
	}
	if got := s.Categories(); len(got) != 5 || got[4] != "Salgados" {
		t.Fatalf("categories after append = %v", got)
	}
	// case-sensitive match: a different casing is a new category
	if _, err := s.AddCategory("salgados"); err != nil {
		t.Fatalf("case variant: %v", err)
	}
	if got := s.Categories(); len(got) != 6 {
		t.Fatalf("expected case-sensitive uniqueness, got %v", got)
	}
	if _, err := s.AddCategory("  "); !errors.Is(err, ErrInvalid) {
		t.Fatalf("blank category: expected ErrInvalid, got %v", err)
	}
}

func TestProductSubscribe(t *testing.T) {
	s, _ := newProductStore(t)
	calls := 0
	cancel := s.Subscribe(func() { calls++ })
	mustAddProduct(t, s, ProductFields{Name: "Pão de Mel", Price: 700})
	if calls != 1 {
		t.Fatalf("expected 1 notification, got %d", calls)
	}
	cancel()
	mustAddProduct(t, s, ProductFields{Name: "Quindim", Price: 600})
	if calls != 1 {
		t.Fatalf("cancelled subscriber must not fire, got %d calls", calls)
	}
}

func TestProductPersistenceRoundTrip(t *testing.T) {
	fs, err := storage.NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new filesystem: %v", err)
	}
	ctx := context.Background()
	s, err := LoadProducts(ctx, fs)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p := mustAddProduct(t, s, ProductFields{
		Name: "Bolo de Chocolate", Price: 4500, Icon: models.IconCake, Category: "Bolos",
	})
	if _, err := s.AddCategory("Salgados"); err != nil {
		t.Fatalf("add category: %v", err)
	}
	if err := s.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded, err := LoadProducts(ctx, fs)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, err := reloaded.ProductByID(p.ID)
	if err != nil {
		t.Fatalf("lookup after reload: %v", err)
	}
	if !reflect.DeepEqual(got, p) {
		t.Fatalf("reloaded product = %+v, want %+v", got, p)
	}
	if cats := reloaded.Categories(); cats[len(cats)-1] != "Salgados" {
		t.Fatalf("categories after reload = %v", cats)
	}
}

func TestLoadProductsRejectsUnknownRecordVersion(t *testing.T) {
	fs, err := storage.NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new filesystem: %v", err)
	}
	ctx := context.Background()
	if err := fs.Save(ctx, storage.NamespaceProducts, []byte(`{"version":2,"products":[],"categories":[]}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := LoadProducts(ctx, fs); err == nil {
		t.Fatal("expected load to fail on record version 2")
	} else if !strings.Contains(err.Error(), "version 2") {
		t.Fatalf("error should name the version, got: %v", err)
	}
}
