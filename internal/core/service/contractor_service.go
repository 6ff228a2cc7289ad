package service

import (
	"context"
	"io"

	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/core/ports"
)

// ContractorService covers the contractor workspace.
type ContractorService struct {
	api ports.Requester
}

// NewContractorService expects a requester rooted at /contractors.
func NewContractorService(api ports.Requester) *ContractorService {
	return &ContractorService{api: api}
}

func (s *ContractorService) Profile(ctx context.Context) (*domain.User, error) {
	return get[domain.User](ctx, s.api, "/profile/", nil)
}

func (s *ContractorService) ListAvailableJobs(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Job], error) {
	return list[domain.Job](ctx, s.api, "/jobs/available/", opts)
}

func (s *ContractorService) SubmitEstimate(ctx context.Context, jobID domain.ID, req domain.EstimateRequest) (*domain.Estimate, error) {
	return post[domain.Estimate](ctx, s.api, "/jobs/"+seg(jobID)+"/estimates/", req)
}

func (s *ContractorService) ListSiteVisits(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.SiteVisit], error) {
	return list[domain.SiteVisit](ctx, s.api, "/site-visits/", opts)
}

func (s *ContractorService) ScheduleSiteVisit(ctx context.Context, req domain.ScheduleSiteVisitRequest) (*domain.SiteVisit, error) {
	return post[domain.SiteVisit](ctx, s.api, "/site-visits/", req)
}

// UploadSiteVisitPhoto attaches one photo to a site visit. The file is sent
// as the "photo" part of a multipart form.
func (s *ContractorService) UploadSiteVisitPhoto(ctx context.Context, visitID domain.ID, fileName string, content io.Reader, caption string) (*domain.Photo, error) {
	up := ports.Upload{
		Endpoint: "/site-visits/" + seg(visitID) + "/photos/",
		Field:    "photo",
		FileName: fileName,
		Content:  content,
	}
	if caption != "" {
		up.Fields = map[string]string{"caption": caption}
	}
	var photo domain.Photo
	if err := s.api.Upload(ctx, up, &photo); err != nil {
		return nil, err
	}
	return &photo, nil
}

func (s *ContractorService) ListPayouts(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Payout], error) {
	return list[domain.Payout](ctx, s.api, "/payouts/", opts)
}

func (s *ContractorService) ListCompliance(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.ComplianceRecord], error) {
	return list[domain.ComplianceRecord](ctx, s.api, "/compliance/", opts)
}
