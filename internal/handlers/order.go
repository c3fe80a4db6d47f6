package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/diewo77/confeitaria/internal/datetime"
	"github.com/diewo77/confeitaria/internal/httpx"
	"github.com/diewo77/confeitaria/internal/models"
	"github.com/diewo77/confeitaria/internal/storage"
	"github.com/diewo77/confeitaria/internal/store"
	"github.com/diewo77/confeitaria/internal/validation"
)

type OrderHandler struct {
	orders   *store.OrderStore
	products *store.ProductStore
	report   WriteReporter
}

func NewOrderHandler(orders *store.OrderStore, products *store.ProductStore, r WriteReporter) *OrderHandler {
	return &OrderHandler{orders: orders, products: products, report: r}
}

// orderView decorates an order with its computed total and display strings.
type orderView struct {
	models.Order
	Total            int64  `json:"total"`
	TotalFormatted   string `json:"totalFormatted"`
	ScheduledDisplay string `json:"scheduledDisplay"`
}

func newOrderView(o models.Order) orderView {
	total := o.Total()
	return orderView{
		Order:            o,
		Total:            total.Centavos(),
		TotalFormatted:   total.Format(),
		ScheduledDisplay: datetime.FormatDateTime(o.ScheduledFor),
	}
}

func orderViews(orders []models.Order) []orderView {
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderView(o))
	}
	return out
}

type orderItemInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type orderInput struct {
	ClientName   string           `json:"clientName"`
	ScheduledFor int64            `json:"scheduledFor"`
	Observations string           `json:"observations"`
	Items        []orderItemInput `json:"items"`
	Status       string           `json:"status"`
}

// resolveItems turns form items into order lines, capturing each product's
// current price as the line's snapshot.
func (h *OrderHandler) resolveItems(items []orderItemInput, v validation.Violations) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for i, in := range items {
		field := fmt.Sprintf("items[%d]", i)
		validation.PositiveInt(field+".quantity", in.Quantity, v)
		if in.Quantity <= 0 {
			continue
		}
		p, err := h.products.ProductByID(in.ProductID)
		if err != nil {
			v[field+".productId"] = "unknown_product"
			continue
		}
		out = append(out, models.OrderItem{
			ProductID: p.ID,
			Quantity:  in.Quantity,
			Price:     p.Price,
		})
	}
	return out
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	views := orderViews(h.orders.Orders())
	httpx.JSON(w, http.StatusOK, map[string]any{"items": views, "total": len(views)})
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.OrderByID(r.URL.Query().Get("id"))
	if errors.Is(err, store.ErrNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "order_not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, newOrderView(o))
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input orderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("clientName", input.ClientName, v)
	if input.ScheduledFor <= 0 {
		v["scheduledFor"] = "required"
	}
	if len(input.Items) == 0 {
		v["items"] = "at_least_one_item"
	}
	// The form submits new orders as pending; the field stays optional here
	// so the client never has to send it.
	status := models.StatusPending
	if input.Status != "" {
		parsed, err := models.ParseStatus(input.Status)
		if err != nil {
			v["status"] = "unknown_value"
		} else {
			status = parsed
		}
	}
	items := h.resolveItems(input.Items, v)
	if !v.Empty() {
		httpx.JSONViolations(w, v)
		return
	}

	o, pending, err := h.orders.AddOrder(store.OrderFields{
		ClientName:   input.ClientName,
		ScheduledFor: input.ScheduledFor,
		Observations: input.Observations,
		Items:        items,
		Status:       status,
	})
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_fields", map[string]string{"error": err.Error()})
		return
	}
	report(h.report, pending)
	httpx.JSON(w, http.StatusCreated, newOrderView(o))
}

type orderPatchInput struct {
	ClientName   *string           `json:"clientName"`
	ScheduledFor *int64            `json:"scheduledFor"`
	Observations *string           `json:"observations"`
	Items        *[]orderItemInput `json:"items"`
	Status       *string           `json:"status"`
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	var input orderPatchInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	patch := store.OrderPatch{
		ClientName:   input.ClientName,
		ScheduledFor: input.ScheduledFor,
		Observations: input.Observations,
	}
	if input.ClientName != nil {
		validation.Required("clientName", *input.ClientName, v)
	}
	if input.Status != nil {
		parsed, err := models.ParseStatus(*input.Status)
		if err != nil {
			v["status"] = "unknown_value"
		} else {
			patch.Status = &parsed
		}
	}
	if input.Items != nil {
		if len(*input.Items) == 0 {
			v["items"] = "at_least_one_item"
		}
		items := h.resolveItems(*input.Items, v)
		patch.Items = &items
	}
	if !v.Empty() {
		httpx.JSONViolations(w, v)
		return
	}

	pending, err := h.orders.UpdateOrder(id, patch)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_fields", map[string]string{"error": err.Error()})
		return
	}
	report(h.report, pending)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	report(h.report, h.orders.DeleteOrder(id))
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.orders.CompleteOrder)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.orders.CancelOrder)
}

func (h *OrderHandler) setStatus(w http.ResponseWriter, r *http.Request, apply func(string) *storage.Pending) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	report(h.report, apply(id))
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ByDate lists the orders of one calendar day (all statuses; the client
// filters by status itself).
func (h *OrderHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_date", map[string]string{"date": "expected YYYY-MM-DD"})
		return
	}
	views := orderViews(h.orders.OrdersByDate(date))
	httpx.JSON(w, http.StatusOK, map[string]any{"items": views, "total": len(views)})
}

// Upcoming lists pending orders from today through today+days.
func (h *OrderHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_days", nil)
			return
		}
		days = n
	}
	views := orderViews(h.orders.UpcomingOrders(days))
	httpx.JSON(w, http.StatusOK, map[string]any{"items": views, "total": len(views)})
}

// ItemQuantity sets one line's quantity; zero removes the line.
func (h *OrderHandler) ItemQuantity(w http.ResponseWriter, r *http.Request) {
	var input struct {
		OrderID  string `json:"orderId"`
		ItemID   string `json:"itemId"`
		Quantity int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("orderId", input.OrderID, v)
	validation.Required("itemId", input.ItemID, v)
	if !v.Empty() {
		httpx.JSONViolations(w, v)
		return
	}
	report(h.report, h.orders.UpdateItemQuantity(input.OrderID, input.ItemID, input.Quantity))
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
