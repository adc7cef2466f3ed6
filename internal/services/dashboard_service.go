// Package services – DashboardService
//
// DashboardService computes the headline numbers shown on the dashboard.
// Nothing is cached; every call reads the current database state. "Today"
// is taken in the reporting time zone, not the server's.
package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fatihsenyuz/Randevu/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DashboardStats is the dashboard summary.
type DashboardStats struct {
	TodayAppointments int64           `json:"today_appointments"`
	TodayCompleted    int64           `json:"today_completed"`
	TodayIncome       decimal.Decimal `json:"today_income"`
	WeekIncome        decimal.Decimal `json:"week_income"`
	MonthIncome       decimal.Decimal `json:"month_income"`
}

// DashboardService aggregates appointments and ledger entries.
type DashboardService struct {
	DB *gorm.DB

	// Location is the reporting time zone; nil means UTC.
	Location *time.Location
	// Now returns the current instant; defaults to time.Now.
	Now func() time.Time
}

// NewDashboardService constructs a DashboardService reporting in loc.
func NewDashboardService(db *gorm.DB, loc *time.Location) *DashboardService {
	return &DashboardService{DB: db, Location: loc, Now: time.Now}
}

// Stats returns today's appointment counts and the income of today, the
// last seven days and the current calendar month.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	today, weekStart, monthStart := s.bounds()

	ctx, span := otel.Tracer("services/DashboardService").Start(ctx, "Stats",
		trace.WithAttributes(attribute.String("report.today", today)),
	)
	defer span.End()

	total, completed, err := repo.DayCounts(ctx, s.DB, today)
	if err != nil {
		return nil, err
	}
	out := &DashboardStats{TodayAppointments: total, TodayCompleted: completed}

	if out.TodayIncome, err = repo.SumAmounts(ctx, s.DB, today, today); err != nil {
		return nil, err
	}
	if out.WeekIncome, err = repo.SumAmounts(ctx, s.DB, weekStart, ""); err != nil {
		return nil, err
	}
	if out.MonthIncome, err = repo.SumAmounts(ctx, s.DB, monthStart, ""); err != nil {
		return nil, err
	}
	return out, nil
}

// bounds returns today, today minus seven days and the first day of the
// month, as YYYY-MM-DD in the reporting zone.
func (s *DashboardService) bounds() (today, weekStart, monthStart string) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	t := now().In(loc)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return day.Format(dateLayout),
		day.AddDate(0, 0, -7).Format(dateLayout),
		time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc).Format(dateLayout)
}
