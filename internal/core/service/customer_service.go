package service

import (
	"context"

	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/core/ports"
)

// CustomerService covers the customer workspace.
type CustomerService struct {
	api ports.Requester
}

// NewCustomerService expects a requester rooted at /customers.
func NewCustomerService(api ports.Requester) *CustomerService {
	return &CustomerService{api: api}
}

func (s *CustomerService) ListJobs(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Job], error) {
	return list[domain.Job](ctx, s.api, "/jobs/", opts)
}

func (s *CustomerService) RequestJob(ctx context.Context, req domain.CreateJobRequest) (*domain.Job, error) {
	return post[domain.Job](ctx, s.api, "/jobs/", req)
}

func (s *CustomerService) ListEstimates(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Estimate], error) {
	return list[domain.Estimate](ctx, s.api, "/estimates/", opts)
}

func (s *CustomerService) AcceptEstimate(ctx context.Context, id domain.ID) (*domain.Estimate, error) {
	return post[domain.Estimate](ctx, s.api, "/estimates/"+seg(id)+"/accept/", nil)
}

func (s *CustomerService) OpenDispute(ctx context.Context, req domain.OpenDisputeRequest) (*domain.Dispute, error) {
	return post[domain.Dispute](ctx, s.api, "/disputes/", req)
}

func (s *CustomerService) ListDisputes(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Dispute], error) {
	return list[domain.Dispute](ctx, s.api, "/disputes/", opts)
}
