package service

import (
	"context"
	"io"

	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/core/ports"
	"github.com/homeops/portal/internal/pkg/query"
)

// InvestorService covers the investor workspace.
type InvestorService struct {
	api ports.Requester
}

// NewInvestorService expects a requester rooted at /workspace/investor.
func NewInvestorService(api ports.Requester) *InvestorService {
	return &InvestorService{api: api}
}

func (s *InvestorService) Portfolio(ctx context.Context) (*domain.PortfolioSummary, error) {
	return get[domain.PortfolioSummary](ctx, s.api, "/portfolio/", nil)
}

func (s *InvestorService) ListProperties(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Property], error) {
	return list[domain.Property](ctx, s.api, "/properties/", opts)
}

func (s *InvestorService) ListPayouts(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Payout], error) {
	return list[domain.Payout](ctx, s.api, "/payouts/", opts)
}

// Performance returns the report for period; an empty period asks the
// backend for its default window.
func (s *InvestorService) Performance(ctx context.Context, period string) (*domain.PerformanceReport, error) {
	return get[domain.PerformanceReport](ctx, s.api, "/performance/", query.New().Set("period", period))
}

func (s *InvestorService) DownloadStatement(ctx context.Context, period string, w io.Writer) (int64, error) {
	return report(ctx, s.api, "/statements/", period, w)
}
