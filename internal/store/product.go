package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/diewo77/confeitaria/internal/models"
	"github.com/diewo77/confeitaria/internal/money"
	"github.com/diewo77/confeitaria/internal/storage"
)

// productRecord is the persisted shape of the catalog namespace.
type productRecord struct {
	Version    int              `json:"version"`
	Products   []models.Product `json:"products"`
	Categories []string         `json:"categories"`
}

// ProductFields are the caller-supplied fields of a new product; id and
// createdAt are assigned by the store.
type ProductFields struct {
	Name        string
	Price       money.Amount
	Description string
	Icon        models.Icon
	Category    string
}

// ProductPatch is a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Price       *money.Amount
	Description *string
	Icon        *models.Icon
	Category    *string
}

// ProductStore owns the catalog and the category set.
type ProductStore struct {
	mu         sync.Mutex
	products   []models.Product
	categories []string

	writer *storage.Writer
	subs   subscribers

	now   func() time.Time
	newID func() string
}

// LoadProducts reads the catalog record and returns a ready store. A missing
// record starts an empty catalog with the default categories.
func LoadProducts(ctx context.Context, rs storage.RecordStore) (*ProductStore, error) {
	s := &ProductStore{
		writer: storage.NewWriter(rs, storage.NamespaceProducts),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	data, err := rs.Load(ctx, storage.NamespaceProducts)
	if errors.Is(err, storage.ErrNotFound) {
		s.categories = append([]string(nil), models.DefaultCategories...)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load product record: %w", err)
	}
	var rec productRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode product record: %w", err)
	}
	if rec.Version != currentRecordVersion {
		return nil, fmt.Errorf("unsupported product record version %d", rec.Version)
	}
	s.products = rec.Products
	s.categories = rec.Categories
	if len(s.categories) == 0 {
		s.categories = append([]string(nil), models.DefaultCategories...)
	}
	return s, nil
}

// Subscribe registers fn to run after every mutation. The returned func
// cancels the subscription.
func (s *ProductStore) Subscribe(fn func()) (cancel func()) {
	return s.subs.add(fn)
}

// Close drains the pending durable writes.
func (s *ProductStore) Close(ctx context.Context) error {
	return s.writer.Close(ctx)
}

// AddProduct creates a product with a fresh id and timestamp, appends it to
// the catalog and schedules the durable write.
func (s *ProductStore) AddProduct(f ProductFields) (models.Product, *storage.Pending, error) {
	if strings.TrimSpace(f.Name) == "" {
		return models.Product{}, nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if f.Price < 0 {
		return models.Product{}, nil, fmt.Errorf("%w: price must not be negative", ErrInvalid)
	}
	p := models.Product{
		ID:          s.newID(),
		Name:        f.Name,
		Price:       f.Price,
		Description: f.Description,
		Icon:        models.ParseIcon(string(f.Icon)),
		Category:    f.Category,
		CreatedAt:   s.now().UnixMilli(),
	}
	s.mu.Lock()
	s.products = append(s.products, p)
	pending := s.persistLocked()
	s.mu.Unlock()
	s.subs.notify()
	return p, pending, nil
}

// UpdateProduct replaces only the supplied fields. A missing id is a silent
// no-op; id and createdAt are never touched.
func (s *ProductStore) UpdateProduct(id string, patch ProductPatch) (*storage.Pending, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalid)
	}
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return storage.Resolved(nil), nil
	}
	p := &s.products[idx]
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Icon != nil {
		p.Icon = models.ParseIcon(string(*patch.Icon))
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	pending := s.persistLocked()
	s.mu.Unlock()
	s.subs.notify()
	return pending, nil
}

// DeleteProduct hard-deletes the product. Orders keep their captured item
// prices, so no cascade runs against them; a missing id is a silent no-op.
func (s *ProductStore) DeleteProduct(id string) *storage.Pending {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return storage.Resolved(nil)
	}
	s.products = append(s.products[:idx], s.products[idx+1:]...)
	pending := s.persistLocked()
	s.mu.Unlock()
	s.subs.notify()
	return pending
}

// ProductByID returns the product or ErrNotFound.
func (s *ProductStore) ProductByID(id string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return models.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return s.products[idx], nil
}

// Products returns a snapshot of the catalog in insertion order.
func (s *ProductStore) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Categories returns a snapshot of the category set in insertion order.
func (s *ProductStore) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

// AddCategory appends a category if not already present (case-sensitive
// exact match). Duplicates are a silent no-op.
func (s *ProductStore) AddCategory(name string) (*storage.Pending, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category is required", ErrInvalid)
	}
	s.mu.Lock()
	for _, c := range s.categories {
		if c == name {
			s.mu.Unlock()
			return storage.Resolved(nil), nil
		}
	}
	s.categories = append(s.categories, name)
	pending := s.persistLocked()
	s.mu.Unlock()
	s.subs.notify()
	return pending, nil
}

func (s *ProductStore) indexLocked(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *ProductStore) persistLocked() *storage.Pending {
	rec := productRecord{
		Version:    currentRecordVersion,
		Products:   append([]models.Product(nil), s.products...),
		Categories: append([]string(nil), s.categories...),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return storage.Resolved(fmt.Errorf("encode product record: %w", err))
	}
	return s.writer.Enqueue(data)
}
