package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/diewo77/confeitaria/internal/handlers"
	"github.com/diewo77/confeitaria/internal/httpx"
	"github.com/diewo77/confeitaria/internal/services"
	"github.com/diewo77/confeitaria/internal/storage"
	"github.com/diewo77/confeitaria/internal/store"
)

// logWriteFailure is the default WriteReporter: the in-memory state already
// moved on, so a failed durable write is logged and the record catches up on
// the next mutation.
func logWriteFailure(p *storage.Pending) {
	go func() {
		<-p.Done()
		if err := p.Err(); err != nil {
			log.Printf("durable write failed (in-memory state kept): %v", err)
		}
	}()
}

// New constructs the root http.Handler with all routes applied.
func New(products *store.ProductStore, orders *store.OrderStore, rs storage.RecordStore) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// Lightweight storage check; a never-written namespace is fine.
		if _, err := rs.Load(r.Context(), storage.NamespaceProducts); err != nil && !errors.Is(err, storage.ErrNotFound) {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Product endpoints. List/Create via /products; update/delete via
	// /products/update & /products/delete for simplicity.
	ph := handlers.NewProductHandler(products, logWriteFailure)
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ph.List(w, r)
		case http.MethodPost:
			ph.Create(w, r)
		default:
			methodNotAllowed(w, "GET,POST")
		}
	})
	mux.HandleFunc("/products/get", requireMethod(http.MethodGet, ph.Get))
	mux.HandleFunc("/products/update", requireMethod(http.MethodPost, ph.Update))
	mux.HandleFunc("/products/delete", requireMethod(http.MethodPost, ph.Delete))
	mux.HandleFunc("/products/icons", requireMethod(http.MethodGet, ph.Icons))

	ch := handlers.NewCategoryHandler(products, logWriteFailure)
	mux.HandleFunc("/categories", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ch.List(w, r)
		case http.MethodPost:
			ch.Create(w, r)
		default:
			methodNotAllowed(w, "GET,POST")
		}
	})

	// Order endpoints.
	oh := handlers.NewOrderHandler(orders, products, logWriteFailure)
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			oh.List(w, r)
		case http.MethodPost:
			oh.Create(w, r)
		default:
			methodNotAllowed(w, "GET,POST")
		}
	})
	mux.HandleFunc("/orders/get", requireMethod(http.MethodGet, oh.Get))
	mux.HandleFunc("/orders/update", requireMethod(http.MethodPost, oh.Update))
	mux.HandleFunc("/orders/delete", requireMethod(http.MethodPost, oh.Delete))
	mux.HandleFunc("/orders/complete", requireMethod(http.MethodPost, oh.Complete))
	mux.HandleFunc("/orders/cancel", requireMethod(http.MethodPost, oh.Cancel))
	mux.HandleFunc("/orders/by-date", requireMethod(http.MethodGet, oh.ByDate))
	mux.HandleFunc("/orders/upcoming", requireMethod(http.MethodGet, oh.Upcoming))
	mux.HandleFunc("/orders/items/quantity", requireMethod(http.MethodPost, oh.ItemQuantity))

	dh := handlers.NewDashboardHandler(services.NewSummaryService(orders))
	mux.HandleFunc("/dashboard", requireMethod(http.MethodGet, dh.Show))

	return mux
}

func requireMethod(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			methodNotAllowed(w, method)
			return
		}
		next(w, r)
	}
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
}

// CloseStores drains both stores' write queues; called on shutdown.
func CloseStores(ctx context.Context, products *store.ProductStore, orders *store.OrderStore) error {
	if err := products.Close(ctx); err != nil {
		return err
	}
	return orders.Close(ctx)
}
