package ports

import (
	"context"
	"io"

	"github.com/homeops/portal/internal/core/domain"
)

// UserResolver identifies the caller of the current request.
type UserResolver interface {
	Me(ctx context.Context) (*domain.User, error)
}

// DashboardLoader builds the landing page of a role.
type DashboardLoader interface {
	Load(ctx context.Context, role string) (any, error)
}

// ReportSource streams CSV reports of one workspace.
type ReportSource interface {
	DownloadReport(ctx context.Context, kind, period string, w io.Writer) (int64, error)
}

// PhotoUploader attaches photos to site visits.
type PhotoUploader interface {
	UploadSiteVisitPhoto(ctx context.Context, visitID domain.ID, fileName string, content io.Reader, caption string) (*domain.Photo, error)
}
