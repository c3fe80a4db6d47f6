package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/confeitaria/internal/httpx"
	"github.com/diewo77/confeitaria/internal/services"
)

type DashboardHandler struct {
	summary *services.SummaryService
}

func NewDashboardHandler(s *services.SummaryService) *DashboardHandler {
	return &DashboardHandler{summary: s}
}

type dayGroupView struct {
	Date   string      `json:"date"`
	Label  string      `json:"label"`
	Orders []orderView `json:"orders"`
}

type dashboardView struct {
	Today               []orderView    `json:"today"`
	TodayTotal          int64          `json:"todayTotal"`
	TodayTotalFormatted string         `json:"todayTotalFormatted"`
	Upcoming            []dayGroupView `json:"upcoming"`
}

// Show renders the home screen payload: today's pending orders plus the
// coming days grouped by date.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_days", nil)
			return
		}
		days = n
	}
	d := h.summary.Dashboard(days)
	view := dashboardView{
		Today:               orderViews(d.Today),
		TodayTotal:          d.TodayTotal.Centavos(),
		TodayTotalFormatted: d.TodayTotal.Format(),
		Upcoming:            make([]dayGroupView, 0, len(d.Upcoming)),
	}
	for _, g := range d.Upcoming {
		view.Upcoming = append(view.Upcoming, dayGroupView{Date: g.Date, Label: g.Label, Orders: orderViews(g.Orders)})
	}
	httpx.JSON(w, http.StatusOK, view)
}
