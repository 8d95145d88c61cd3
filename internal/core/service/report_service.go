package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/core/normalize"
	"github.com/lavanda/laundry-dashboard/internal/core/ports"
)

// ReportLoader fetches and normalizes the reporting endpoints of one tenant.
type ReportLoader struct {
	api   ports.LaundryAPI
	scope domain.TenantScope
	log   zerolog.Logger
}

func NewReportLoader(api ports.LaundryAPI, scope domain.TenantScope, log zerolog.Logger) *ReportLoader {
	return &ReportLoader{api: api, scope: scope, log: log}
}

// Report loads a single report and returns its normalized view model.
func (r *ReportLoader) Report(ctx context.Context, kind domain.ReportKind) (any, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown report %q", domain.ErrValidation, kind)
	}
	if !r.scope.Resolved() {
		return nil, domain.ErrTenantMissing
	}
	raw, err := r.api.Report(ctx, kind, r.scope.LaundryID)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", kind, err)
	}
	return normalizeReport(kind, raw), nil
}

// LoadDashboard fetches every report concurrently and joins them. A single
// failure cancels the rest and fails the whole dashboard.
func (r *ReportLoader) LoadDashboard(ctx context.Context) (domain.Dashboard, error) {
	if !r.scope.Resolved() {
		return domain.Dashboard{}, domain.ErrTenantMissing
	}

	var d domain.Dashboard
	g, gctx := errgroup.WithContext(ctx)
	fetch := func(kind domain.ReportKind, assign func(raw any)) {
		g.Go(func() error {
			raw, err := r.api.Report(gctx, kind, r.scope.LaundryID)
			if err != nil {
				return fmt.Errorf("report %s: %w", kind, err)
			}
			assign(raw)
			return nil
		})
	}

	fetch(domain.ReportThisMonth, func(raw any) { d.ThisMonth = normalize.MonthSummary(raw) })
	fetch(domain.ReportTopClients, func(raw any) { d.TopClients = normalize.TopClients(raw) })
	fetch(domain.ReportTopServices, func(raw any) { d.TopServices = normalize.TopServices(raw) })
	fetch(domain.ReportWeek, func(raw any) { d.Week = normalize.Series(raw) })
	fetch(domain.ReportDay, func(raw any) { d.Day = normalize.Series(raw) })
	fetch(domain.ReportMonths, func(raw any) { d.Months = normalize.MonthSeries(raw) })

	if err := g.Wait(); err != nil {
		r.log.Warn().Err(err).Str("laundry_id", r.scope.LaundryID).Msg("dashboard load failed")
		return domain.Dashboard{}, err
	}
	return d, nil
}

func normalizeReport(kind domain.ReportKind, raw any) any {
	switch kind {
	case domain.ReportThisMonth:
		return normalize.MonthSummary(raw)
	case domain.ReportTopClients:
		return normalize.TopClients(raw)
	case domain.ReportTopServices:
		return normalize.TopServices(raw)
	case domain.ReportMonths:
		return normalize.MonthSeries(raw)
	default:
		return normalize.Series(raw)
	}
}
