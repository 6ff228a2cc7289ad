package handler

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/core/ports"
)

const maxPhotoBytes = 20 << 20

var reportKind = regexp.MustCompile(`^[a-z][a-z0-9-]{0,39}$`)

// FileHandler relays the binary endpoints: CSV reports and site visit photos.
type FileHandler struct {
	reports map[string]ports.ReportSource
	photos  ports.PhotoUploader
	log     zerolog.Logger
}

// NewFileHandler takes one report source per role allowed to download.
func NewFileHandler(reports map[string]ports.ReportSource, photos ports.PhotoUploader, log zerolog.Logger) *FileHandler {
	return &FileHandler{reports: reports, photos: photos, log: log}
}

// Report streams a CSV report from the caller's workspace.
//
// @Summary      Download a report
// @Tags         files
// @Produce      text/csv
// @Security     BearerAuth
// @Param        kind    path   string  true   "Report kind"
// @Param        period  query  string  false  "Reporting period"
// @Success      200
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /v1/reports/{kind} [get]
func (h *FileHandler) Report(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	src, ok := h.reports[u.Role]
	if !ok {
		return domain.ErrForbidden
	}
	kind := c.Param("kind")
	if !reportKind.MatchString(kind) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid report kind")
	}
	period := c.QueryParam("period")

	name := kind
	if period != "" {
		name += "-" + period
	}
	w := &attachment{c: c, name: name + ".csv"}
	if _, err := src.DownloadReport(c.Request().Context(), kind, period, w); err != nil {
		if w.started {
			// headers are out, the client sees a truncated file
			h.log.Error().Err(err).Str("kind", kind).Str("period", period).Msg("report stream interrupted")
			return nil
		}
		return err
	}
	if !w.started {
		w.start()
	}
	return nil
}

type photoResponse struct {
	VisitID string        `json:"visit_id"`
	Photo   *domain.Photo `json:"photo"`
}

// UploadPhoto relays one multipart photo to a site visit.
//
// @Summary      Upload a site visit photo
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true   "Site visit ID"
// @Param        photo    formData  file    true   "Photo"
// @Param        caption  formData  string  false  "Caption"
// @Success      201  {object}  photoResponse
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /v1/site-visits/{id}/photos [post]
func (h *FileHandler) UploadPhoto(c echo.Context) error {
	visitID := domain.ID(c.Param("id"))
	if visitID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing site visit id")
	}
	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxPhotoBytes)

	fh, err := c.FormFile("photo")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "photo file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable photo")
	}
	defer f.Close()

	photo, err := h.photos.UploadSiteVisitPhoto(c.Request().Context(), visitID, fh.Filename, f, c.FormValue("caption"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, photoResponse{VisitID: visitID.String(), Photo: photo})
}

// attachment writes the CSV headers on the first byte, so a failure before
// any data still goes through the JSON error handler.
type attachment struct {
	c       echo.Context
	name    string
	started bool
}

func (a *attachment) start() {
	h := a.c.Response().Header()
	h.Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	h.Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", a.name))
	a.c.Response().WriteHeader(http.StatusOK)
	a.started = true
}

func (a *attachment) Write(p []byte) (int, error) {
	if !a.started {
		a.start()
	}
	return a.c.Response().Write(p)
}
