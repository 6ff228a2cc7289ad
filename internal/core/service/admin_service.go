package service

import (
	"context"
	"io"

	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/core/ports"
	"github.com/homeops/portal/internal/pkg/query"
)

// AdminService covers the admin workspace plus the contractor verification
// endpoint that lives under /admin.
type AdminService struct {
	workspace ports.Requester
	admin     ports.Requester
}

// NewAdminService expects requesters rooted at /workspace/admin and /admin.
func NewAdminService(workspace, admin ports.Requester) *AdminService {
	return &AdminService{workspace: workspace, admin: admin}
}

func (s *AdminService) ListUsers(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.User], error) {
	return list[domain.User](ctx, s.workspace, "/users/", opts)
}

func (s *AdminService) ListDisputes(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Dispute], error) {
	return list[domain.Dispute](ctx, s.workspace, "/disputes/", opts)
}

func (s *AdminService) ResolveDispute(ctx context.Context, id domain.ID, req domain.ResolveDisputeRequest) (*domain.Dispute, error) {
	return post[domain.Dispute](ctx, s.workspace, "/disputes/"+seg(id)+"/resolve/", req)
}

func (s *AdminService) ListCompliance(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.ComplianceRecord], error) {
	return list[domain.ComplianceRecord](ctx, s.workspace, "/compliance/", opts)
}

func (s *AdminService) UpdateCompliance(ctx context.Context, id domain.ID, update domain.ComplianceUpdate) (*domain.ComplianceRecord, error) {
	return patch[domain.ComplianceRecord](ctx, s.workspace, "/compliance/"+seg(id)+"/", update)
}

func (s *AdminService) ListPayouts(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Payout], error) {
	return list[domain.Payout](ctx, s.workspace, "/payouts/", opts)
}

func (s *AdminService) ApprovePayout(ctx context.Context, id domain.ID) (*domain.Payout, error) {
	return post[domain.Payout](ctx, s.workspace, "/payouts/"+seg(id)+"/approve/", nil)
}

func (s *AdminService) Metrics(ctx context.Context, period string) (*domain.PlatformMetrics, error) {
	return get[domain.PlatformMetrics](ctx, s.workspace, "/metrics/", query.New().Set("period", period))
}

func (s *AdminService) DownloadReport(ctx context.Context, kind, period string, w io.Writer) (int64, error) {
	return report(ctx, s.workspace, reportPath(kind), period, w)
}

// VerifyContractor marks a contractor as verified and returns the backend
// acknowledgment.
func (s *AdminService) VerifyContractor(ctx context.Context, contractorID domain.ID) (*domain.Ack, error) {
	return post[domain.Ack](ctx, s.admin, "/contractors/"+seg(contractorID)+"/verify/", nil)
}
