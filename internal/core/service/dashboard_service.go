package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/pkg/metrics"
)

// dashboardLimit is the page size of every dashboard listing.
const dashboardLimit = 5

// DashboardService assembles the landing page of each role. The listings of a
// dashboard are fetched concurrently; the first failure cancels the others
// and fails the whole dashboard.
type DashboardService struct {
	facility   *FacilityService
	investor   *InvestorService
	admin      *AdminService
	contractor *ContractorService
	customer   *CustomerService
	logger     zerolog.Logger
}

func NewDashboardService(
	facility *FacilityService,
	investor *InvestorService,
	admin *AdminService,
	contractor *ContractorService,
	customer *CustomerService,
	logger zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		facility:   facility,
		investor:   investor,
		admin:      admin,
		contractor: contractor,
		customer:   customer,
		logger:     logger,
	}
}

// Load returns the dashboard for role: one of *domain.FacilityDashboard,
// *domain.InvestorDashboard, *domain.AdminDashboard,
// *domain.ContractorDashboard or *domain.CustomerDashboard.
func (s *DashboardService) Load(ctx context.Context, role string) (any, error) {
	var (
		out any
		err error
	)
	switch role {
	case domain.RoleFacilityManager:
		out, err = s.Facility(ctx)
	case domain.RoleInvestor:
		out, err = s.Investor(ctx)
	case domain.RoleAdmin:
		out, err = s.Admin(ctx)
	case domain.RoleContractor:
		out, err = s.Contractor(ctx)
	case domain.RoleCustomer:
		out, err = s.Customer(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedRole, role)
	}

	result := "ok"
	if err != nil {
		result = "error"
		s.logger.Warn().Err(err).Str("role", role).Msg("dashboard load failed")
	}
	metrics.DashboardLoadsTotal.WithLabelValues(role, result).Inc()
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *DashboardService) Facility(ctx context.Context) (*domain.FacilityDashboard, error) {
	var d domain.FacilityDashboard
	g, gctx := errgroup.WithContext(ctx)
	fetch(g, gctx, &d.OpenJobs, func(ctx context.Context) (*domain.Page[domain.Job], error) {
		return s.facility.ListJobs(ctx, recent(domain.JobOpen))
	})
	fetch(g, gctx, &d.PendingEstimates, func(ctx context.Context) (*domain.Page[domain.Estimate], error) {
		return s.facility.ListEstimates(ctx, recent(domain.EstimatePending))
	})
	fetch(g, gctx, &d.WorkOrders, func(ctx context.Context) (*domain.Page[domain.WorkOrder], error) {
		return s.facility.ListWorkOrders(ctx, recent(domain.JobOpen))
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DashboardService) Investor(ctx context.Context) (*domain.InvestorDashboard, error) {
	var d domain.InvestorDashboard
	g, gctx := errgroup.WithContext(ctx)
	fetch(g, gctx, &d.Portfolio, s.investor.Portfolio)
	fetch(g, gctx, &d.Payouts, func(ctx context.Context) (*domain.Page[domain.Payout], error) {
		return s.investor.ListPayouts(ctx, recent(""))
	})
	fetch(g, gctx, &d.Performance, func(ctx context.Context) (*domain.PerformanceReport, error) {
		return s.investor.Performance(ctx, "")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DashboardService) Admin(ctx context.Context) (*domain.AdminDashboard, error) {
	var d domain.AdminDashboard
	g, gctx := errgroup.WithContext(ctx)
	fetch(g, gctx, &d.Metrics, func(ctx context.Context) (*domain.PlatformMetrics, error) {
		return s.admin.Metrics(ctx, "")
	})
	fetch(g, gctx, &d.OpenDisputes, func(ctx context.Context) (*domain.Page[domain.Dispute], error) {
		return s.admin.ListDisputes(ctx, recent(domain.DisputeOpen))
	})
	fetch(g, gctx, &d.PendingReviews, func(ctx context.Context) (*domain.Page[domain.ComplianceRecord], error) {
		return s.admin.ListCompliance(ctx, recent(domain.CompliancePending))
	})
	fetch(g, gctx, &d.PendingPayouts, func(ctx context.Context) (*domain.Page[domain.Payout], error) {
		return s.admin.ListPayouts(ctx, recent(domain.PayoutPending))
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DashboardService) Contractor(ctx context.Context) (*domain.ContractorDashboard, error) {
	var d domain.ContractorDashboard
	g, gctx := errgroup.WithContext(ctx)
	fetch(g, gctx, &d.AvailableJobs, func(ctx context.Context) (*domain.Page[domain.Job], error) {
		return s.contractor.ListAvailableJobs(ctx, recent(""))
	})
	fetch(g, gctx, &d.SiteVisits, func(ctx context.Context) (*domain.Page[domain.SiteVisit], error) {
		return s.contractor.ListSiteVisits(ctx, recent(""))
	})
	fetch(g, gctx, &d.Payouts, func(ctx context.Context) (*domain.Page[domain.Payout], error) {
		return s.contractor.ListPayouts(ctx, recent(""))
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DashboardService) Customer(ctx context.Context) (*domain.CustomerDashboard, error) {
	var d domain.CustomerDashboard
	g, gctx := errgroup.WithContext(ctx)
	fetch(g, gctx, &d.Jobs, func(ctx context.Context) (*domain.Page[domain.Job], error) {
		return s.customer.ListJobs(ctx, recent(""))
	})
	fetch(g, gctx, &d.Estimates, func(ctx context.Context) (*domain.Page[domain.Estimate], error) {
		return s.customer.ListEstimates(ctx, recent(domain.EstimatePending))
	})
	fetch(g, gctx, &d.Disputes, func(ctx context.Context) (*domain.Page[domain.Dispute], error) {
		return s.customer.ListDisputes(ctx, recent(""))
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

// fetch runs fn in g and copies its result into dst on success.
func fetch[T any](g *errgroup.Group, ctx context.Context, dst *T, fn func(context.Context) (*T, error)) {
	g.Go(func() error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		*dst = *v
		return nil
	})
}

func recent(status string) domain.ListOptions {
	return domain.ListOptions{Status: status, Limit: domain.Ptr(dashboardLimit), Offset: domain.Ptr(0)}
}
