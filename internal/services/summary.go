// Package services holds the read-side computations the dashboard screen is
// built from.
package services

import (
	"time"

	"github.com/diewo77/confeitaria/internal/datetime"
	"github.com/diewo77/confeitaria/internal/models"
	"github.com/diewo77/confeitaria/internal/money"
	"github.com/diewo77/confeitaria/internal/store"
)

// SummaryService aggregates store snapshots into the home-screen view:
// today's pending orders plus the upcoming week, grouped by day.
type SummaryService struct {
	orders *store.OrderStore
	now    func() time.Time
}

func NewSummaryService(orders *store.OrderStore) *SummaryService {
	return &SummaryService{orders: orders, now: time.Now}
}

// DayGroup is one upcoming day with its orders. Date is the ISO calendar
// day the group is keyed by; Label is what the screen shows for it.
type DayGroup struct {
	Date   string         `json:"date"`
	Label  string         `json:"label"`
	Orders []models.Order `json:"orders"`
}

// Dashboard is the home screen payload.
type Dashboard struct {
	Today      []models.Order `json:"today"`
	TodayTotal money.Amount   `json:"todayTotal"`
	Upcoming   []DayGroup     `json:"upcoming"`
}

// Dashboard returns today's pending orders with their combined total, and
// the pending orders of the following days (today excluded), grouped by
// calendar day in schedule order.
func (s *SummaryService) Dashboard(days int) Dashboard {
	now := s.now()
	var d Dashboard
	for _, o := range s.orders.OrdersByDate(now) {
		if o.Status != models.StatusPending {
			continue
		}
		d.TodayTotal += o.Total()
		d.Today = append(d.Today, o)
	}

	var groups []DayGroup
	index := map[string]int{}
	for _, o := range s.orders.UpcomingOrders(days) {
		if datetime.SameDay(datetime.FromMillis(o.ScheduledFor), now) {
			continue
		}
		// Key by ISO date; the display label omits the year and would
		// collapse same-day-of-year dates on long horizons.
		key := datetime.FromMillis(o.ScheduledFor).Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{Date: key, Label: datetime.FormatDate(o.ScheduledFor)})
		}
		groups[i].Orders = append(groups[i].Orders, o)
	}
	d.Upcoming = groups
	return d
}
