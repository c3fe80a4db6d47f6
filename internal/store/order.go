package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/diewo77/confeitaria/internal/datetime"
	"github.com/diewo77/confeitaria/internal/models"
	"github.com/diewo77/confeitaria/internal/storage"
)

// orderRecord is the persisted shape of the order namespace.
type orderRecord struct {
	Version int            `json:"version"`
	Orders  []models.Order `json:"orders"`
}

// OrderFields are the caller-supplied fields of a new order. Status must be
// supplied; defaulting to pending is the presentation layer's job.
type OrderFields struct {
	ClientName   string
	ScheduledFor int64
	Observations string
	Items        []models.OrderItem
	Status       models.Status
}

// OrderPatch is a partial update; nil fields are left untouched.
type OrderPatch struct {
	ClientName   *string
	ScheduledFor *int64
	Observations *string
	Items        *[]models.OrderItem
	Status       *models.Status
}

// OrderStore owns the order list.
type OrderStore struct {
	mu     sync.Mutex
	orders []models.Order

	writer *storage.Writer
	subs   subscribers

	now   func() time.Time
	newID func() string
}

// LoadOrders reads the order record and returns a ready store. A missing
// record starts an empty list.
func LoadOrders(ctx context.Context, rs storage.RecordStore) (*OrderStore, error) {
	s := &OrderStore{
		writer: storage.NewWriter(rs, storage.NamespaceOrders),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	data, err := rs.Load(ctx, storage.NamespaceOrders)
	if errors.Is(err, storage.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load order record: %w", err)
	}
	var rec orderRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode order record: %w", err)
	}
	if rec.Version != currentRecordVersion {
		return nil, fmt.Errorf("unsupported order record version %d", rec.Version)
	}
	s.orders = rec.Orders
	return s, nil
}

// Subscribe registers fn to run after every mutation. The returned func
// cancels the subscription.
func (s *OrderStore) Subscribe(fn func()) (cancel func()) {
	return s.subs.add(fn)
}

// Close drains the pending durable writes.
func (s *OrderStore) Close(ctx context.Context) error {
	return s.writer.Close(ctx)
}

// AddOrder creates an order with a fresh id and timestamp. Items without an
// id get one derived from the creation timestamp, unique within the order.
func (s *OrderStore) AddOrder(f OrderFields) (models.Order, *storage.Pending, error) {
	if strings.TrimSpace(f.ClientName) == "" {
		return models.Order{}, nil, fmt.Errorf("%w: clientName is required", ErrInvalid)
	}
	if !f.Status.Valid() {
		return models.Order{}, nil, fmt.Errorf("%w: unknown status %q", ErrInvalid, f.Status)
	}
	items, err := s.normalizeItems(f.Items)
	if err != nil {
		return models.Order{}, nil, err
	}
	o := models.Order{
		ID:           s.newID(),
		ClientName:   f.ClientName,
		ScheduledFor: f.ScheduledFor,
		Observations: f.Observations,
		Items:        items,
		Status:       f.Status,
		CreatedAt:    s.now().UnixMilli(),
	}
	s.mu.Lock()
	s.orders = append(s.orders, o)
	pending := s.persistLocked()
	s.mu.Unlock()
	s.subs.notify()
	return o.Clone(), pending, nil
}

// UpdateOrder replaces only the supplied fields. A missing id is a silent
// no-op; id and createdAt are never touched.
func (s *OrderStore) UpdateOrder(id string, patch OrderPatch) (*storage.Pending, error) {
	if patch.ClientName != nil && strings.TrimSpace(*patch.ClientName) == "" {
		return nil, fmt.Errorf("%w: clientName is required", ErrInvalid)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalid, *patch.Status)
	}
	var items []models.OrderItem
	if patch.Items != nil {
		var err error
		items, err = s.normalizeItems(*patch.Items)
		if err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return storage.Resolved(nil), nil
	}
	o := &s.orders[idx]
	if patch.ClientName != nil {
		o.ClientName = *patch.ClientName
	}
	if patch.ScheduledFor != nil {
		o.ScheduledFor = *patch.ScheduledFor
	}
	if patch.Observations != nil {
		o.Observations = *patch.Observations
	}
	if patch.Items != nil {
		o.Items = items
	}
	if patch.Status != nil {
		o.Status = *patch.Status
	}
	pending := s.persistLocked()
	s.mu.Unlock()
	s.subs.notify()
	return pending, nil
}

// DeleteOrder hard-deletes the order; a missing id is a silent no-op.
func (s *OrderStore) DeleteOrder(id string) *storage.Pending {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return storage.Resolved(nil)
	}
	s.orders = append(s.orders[:idx], s.orders[idx+1:]...)
	pending := s.persistLocked()
	s.mu.Unlock()
	s.subs.notify()
	return pending
}

// OrderByID returns the order or ErrNotFound.
func (s *OrderStore) OrderByID(id string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return models.Order{}, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return s.orders[idx].Clone(), nil
}

// Orders returns a snapshot of the full list in insertion order.
func (s *OrderStore) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, 0, len(s.orders))
	for i := range s.orders {
		out = append(out, s.orders[i].Clone())
	}
	return out
}

// OrdersByDate returns every order scheduled within the inclusive calendar
// day of date, local time, regardless of status.
func (s *OrderStore) OrdersByDate(date time.Time) []models.Order {
	startMs := datetime.Millis(datetime.StartOfDay(date))
	endMs := datetime.Millis(datetime.EndOfDay(date))
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for i := range s.orders {
		if ms := s.orders[i].ScheduledFor; ms >= startMs && ms <= endMs {
			out = append(out, s.orders[i].Clone())
		}
	}
	return out
}

// UpcomingOrders returns pending orders scheduled between the start of today
// and the end of today+days, ascending by scheduled time. days=0 yields only
// today; the end-of-day boundary is inclusive.
func (s *OrderStore) UpcomingOrders(days int) []models.Order {
	now := s.now()
	startMs := datetime.Millis(datetime.StartOfDay(now))
	endMs := datetime.Millis(datetime.EndOfDay(datetime.AddDays(now, days)))
	s.mu.Lock()
	var out []models.Order
	for i := range s.orders {
		o := &s.orders[i]
		if o.Status != models.StatusPending {
			continue
		}
		if o.ScheduledFor >= startMs && o.ScheduledFor <= endMs {
			out = append(out, o.Clone())
		}
	}
	s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScheduledFor < out[j].ScheduledFor
	})
	return out
}

// CompleteOrder sets the status to completed, unconditionally; a missing id
// is a silent no-op.
func (s *OrderStore) CompleteOrder(id string) *storage.Pending {
	return s.setStatus(id, models.StatusCompleted)
}

// CancelOrder sets the status to cancelled, unconditionally; a missing id is
// a silent no-op.
func (s *OrderStore) CancelOrder(id string) *storage.Pending {
	return s.setStatus(id, models.StatusCancelled)
}

func (s *OrderStore) setStatus(id string, st models.Status) *storage.Pending {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return storage.Resolved(nil)
	}
	s.orders[idx].Status = st
	pending := s.persistLocked()
	s.mu.Unlock()
	s.subs.notify()
	return pending
}

// UpdateItemQuantity sets an item's quantity; a quantity of zero or less
// removes the item from the order. Unknown order or item ids are silent
// no-ops.
func (s *OrderStore) UpdateItemQuantity(orderID, itemID string, quantity int) *storage.Pending {
	s.mu.Lock()
	idx := s.indexLocked(orderID)
	if idx < 0 {
		s.mu.Unlock()
		return storage.Resolved(nil)
	}
	o := &s.orders[idx]
	itemIdx := -1
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			itemIdx = i
			break
		}
	}
	if itemIdx < 0 {
		s.mu.Unlock()
		return storage.Resolved(nil)
	}
	if quantity <= 0 {
		o.Items = append(o.Items[:itemIdx], o.Items[itemIdx+1:]...)
	} else {
		o.Items[itemIdx].Quantity = quantity
	}
	pending := s.persistLocked()
	s.mu.Unlock()
	s.subs.notify()
	return pending
}

// normalizeItems validates line items and assigns missing ids from the
// creation timestamp, bumping on collision so ids stay unique per order.
func (s *OrderStore) normalizeItems(items []models.OrderItem) ([]models.OrderItem, error) {
	out := make([]models.OrderItem, len(items))
	copy(out, items)
	used := make(map[string]struct{}, len(out))
	for i := range out {
		if out[i].ID != "" {
			if _, dup := used[out[i].ID]; dup {
				return nil, fmt.Errorf("%w: duplicate item id %q", ErrInvalid, out[i].ID)
			}
			used[out[i].ID] = struct{}{}
		}
	}
	base := s.now().UnixMilli()
	for i := range out {
		it := &out[i]
		if strings.TrimSpace(it.ProductID) == "" {
			return nil, fmt.Errorf("%w: item productId is required", ErrInvalid)
		}
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be positive", ErrInvalid)
		}
		if it.Price < 0 {
			return nil, fmt.Errorf("%w: item price must not be negative", ErrInvalid)
		}
		if it.ID == "" {
			for {
				id := strconv.FormatInt(base, 10)
				base++
				if _, dup := used[id]; !dup {
					used[id] = struct{}{}
					it.ID = id
					break
				}
			}
		}
	}
	return out, nil
}

func (s *OrderStore) indexLocked(id string) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *OrderStore) persistLocked() *storage.Pending {
	rec := orderRecord{Version: currentRecordVersion}
	rec.Orders = make([]models.Order, 0, len(s.orders))
	for i := range s.orders {
		rec.Orders = append(rec.Orders, s.orders[i].Clone())
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return storage.Resolved(fmt.Errorf("encode order record: %w", err))
	}
	return s.writer.Enqueue(data)
}
