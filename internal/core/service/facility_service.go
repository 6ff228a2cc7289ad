package service

import (
	"context"
	"io"

	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/core/ports"
)

// FacilityService covers the facility manager workspace.
type FacilityService struct {
	api ports.Requester
}

// NewFacilityService expects a requester rooted at /workspace/fm.
func NewFacilityService(api ports.Requester) *FacilityService {
	return &FacilityService{api: api}
}

func (s *FacilityService) ListJobs(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Job], error) {
	return list[domain.Job](ctx, s.api, "/jobs/", opts)
}

func (s *FacilityService) GetJob(ctx context.Context, id domain.ID) (*domain.Job, error) {
	return get[domain.Job](ctx, s.api, "/jobs/"+seg(id)+"/", nil)
}

func (s *FacilityService) CreateJob(ctx context.Context, req domain.CreateJobRequest) (*domain.Job, error) {
	return post[domain.Job](ctx, s.api, "/jobs/", req)
}

func (s *FacilityService) ListEstimates(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Estimate], error) {
	return list[domain.Estimate](ctx, s.api, "/estimates/", opts)
}

func (s *FacilityService) ApproveEstimate(ctx context.Context, id domain.ID) (*domain.Estimate, error) {
	return post[domain.Estimate](ctx, s.api, "/estimates/"+seg(id)+"/approve/", nil)
}

func (s *FacilityService) RejectEstimate(ctx context.Context, id domain.ID, req domain.RejectEstimateRequest) (*domain.Estimate, error) {
	return post[domain.Estimate](ctx, s.api, "/estimates/"+seg(id)+"/reject/", req)
}

func (s *FacilityService) ListSiteVisits(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.SiteVisit], error) {
	return list[domain.SiteVisit](ctx, s.api, "/site-visits/", opts)
}

func (s *FacilityService) ListProperties(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Property], error) {
	return list[domain.Property](ctx, s.api, "/properties/", opts)
}

func (s *FacilityService) ListWorkOrders(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.WorkOrder], error) {
	return list[domain.WorkOrder](ctx, s.api, "/work-orders/", opts)
}

func (s *FacilityService) UpdateWorkOrder(ctx context.Context, id domain.ID, update domain.WorkOrderUpdate) (*domain.WorkOrder, error) {
	return patch[domain.WorkOrder](ctx, s.api, "/work-orders/"+seg(id)+"/", update)
}

// DownloadReport streams the CSV report of the given kind (jobs, estimates,
// work-orders, ...) for period into w.
func (s *FacilityService) DownloadReport(ctx context.Context, kind, period string, w io.Writer) (int64, error) {
	return report(ctx, s.api, reportPath(kind), period, w)
}
