package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/homeops/portal/internal/core/domain"
)

func TestFacilityService_ListJobs_EncodesFilters(t *testing.T) {
	api := newStubRequester().on(http.MethodGet, "/jobs/", `{"results":[{"id":1,"title":"Leak"},{"id":2,"title":"Paint"}],"count":5}`)
	svc := NewFacilityService(api)

	page, err := svc.ListJobs(context.Background(), domain.ListOptions{Status: "open", Limit: domain.Ptr(10), Offset: domain.Ptr(0)})
	if err != nil {
		t.Fatalf("ListJobs returned error: %v", err)
	}
	if page.Count != 5 || len(page.Results) != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if q := api.last().Query; q != "status=open&limit=10&offset=0" {
		t.Fatalf("unexpected query: %s", q)
	}

	if _, err := svc.ListJobs(context.Background(), domain.ListOptions{}); err != nil {
		t.Fatalf("ListJobs returned error: %v", err)
	}
	if q := api.last().Query; q != "" {
		t.Fatalf("undefined filters must be omitted, got %q", q)
	}
}

func TestWorkspaceServices_Endpoints(t *testing.T) {
	ctx := context.Background()
	ok := `{"id":"x-1"}`
	page := `{"results":[],"count":0}`

	api := newStubRequester()
	admin := newStubRequester()
	fm := NewFacilityService(api)
	inv := NewInvestorService(api)
	adm := NewAdminService(api, admin)
	con := NewContractorService(api)
	cus := NewCustomerService(api)

	cases := []struct {
		name     string
		method   string
		endpoint string
		resp     string
		run      func() error
	}{
		{"fm get job", http.MethodGet, "/jobs/j%2F1/", ok, func() error { _, err := fm.GetJob(ctx, "j/1"); return err }},
		{"fm create job", http.MethodPost, "/jobs/", ok, func() error {
			_, err := fm.CreateJob(ctx, domain.CreateJobRequest{Title: "Boiler", PropertyID: "p-1"})
			return err
		}},
		{"fm estimates", http.MethodGet, "/estimates/", page, func() error { _, err := fm.ListEstimates(ctx, domain.ListOptions{}); return err }},
		{"fm approve", http.MethodPost, "/estimates/7/approve/", ok, func() error { _, err := fm.ApproveEstimate(ctx, "7"); return err }},
		{"fm reject", http.MethodPost, "/estimates/7/reject/", ok, func() error {
			_, err := fm.RejectEstimate(ctx, "7", domain.RejectEstimateRequest{Reason: "too high"})
			return err
		}},
		{"fm site visits", http.MethodGet, "/site-visits/", page, func() error { _, err := fm.ListSiteVisits(ctx, domain.ListOptions{}); return err }},
		{"fm properties", http.MethodGet, "/properties/", page, func() error { _, err := fm.ListProperties(ctx, domain.ListOptions{}); return err }},
		{"fm work orders", http.MethodGet, "/work-orders/", page, func() error { _, err := fm.ListWorkOrders(ctx, domain.ListOptions{}); return err }},
		{"fm update work order", http.MethodPatch, "/work-orders/4/", ok, func() error {
			_, err := fm.UpdateWorkOrder(ctx, "4", domain.WorkOrderUpdate{Status: domain.JobCompleted})
			return err
		}},
		{"investor portfolio", http.MethodGet, "/portfolio/", `{"property_count":3}`, func() error { _, err := inv.Portfolio(ctx); return err }},
		{"investor properties", http.MethodGet, "/properties/", page, func() error { _, err := inv.ListProperties(ctx, domain.ListOptions{}); return err }},
		{"investor payouts", http.MethodGet, "/payouts/", page, func() error { _, err := inv.ListPayouts(ctx, domain.ListOptions{}); return err }},
		{"investor performance", http.MethodGet, "/performance/", `{"period":"2024"}`, func() error { _, err := inv.Performance(ctx, "2024"); return err }},
		{"admin users", http.MethodGet, "/users/", page, func() error { _, err := adm.ListUsers(ctx, domain.ListOptions{}); return err }},
		{"admin disputes", http.MethodGet, "/disputes/", page, func() error { _, err := adm.ListDisputes(ctx, domain.ListOptions{}); return err }},
		{"admin resolve", http.MethodPost, "/disputes/9/resolve/", ok, func() error {
			_, err := adm.ResolveDispute(ctx, "9", domain.ResolveDisputeRequest{Resolution: "refund"})
			return err
		}},
		{"admin compliance", http.MethodGet, "/compliance/", page, func() error { _, err := adm.ListCompliance(ctx, domain.ListOptions{}); return err }},
		{"admin update compliance", http.MethodPatch, "/compliance/2/", ok, func() error {
			_, err := adm.UpdateCompliance(ctx, "2", domain.ComplianceUpdate{Status: domain.ComplianceVerified})
			return err
		}},
		{"admin approve payout", http.MethodPost, "/payouts/5/approve/", ok, func() error { _, err := adm.ApprovePayout(ctx, "5"); return err }},
		{"admin metrics", http.MethodGet, "/metrics/", `{"active_jobs":4}`, func() error { _, err := adm.Metrics(ctx, ""); return err }},
		{"contractor profile", http.MethodGet, "/profile/", ok, func() error { _, err := con.Profile(ctx); return err }},
		{"contractor available", http.MethodGet, "/jobs/available/", page, func() error { _, err := con.ListAvailableJobs(ctx, domain.ListOptions{}); return err }},
		{"contractor estimate", http.MethodPost, "/jobs/3/estimates/", ok, func() error {
			_, err := con.SubmitEstimate(ctx, "3", domain.EstimateRequest{LineItems: []domain.LineItemInput{{Description: "labour", Quantity: 2, UnitPrice: 40}}})
			return err
		}},
		{"contractor schedule", http.MethodPost, "/site-visits/", ok, func() error {
			_, err := con.ScheduleSiteVisit(ctx, domain.ScheduleSiteVisitRequest{JobID: "3"})
			return err
		}},
		{"contractor compliance", http.MethodGet, "/compliance/", page, func() error { _, err := con.ListCompliance(ctx, domain.ListOptions{}); return err }},
		{"customer request job", http.MethodPost, "/jobs/", ok, func() error {
			_, err := cus.RequestJob(ctx, domain.CreateJobRequest{Title: "Fence", PropertyID: "p"})
			return err
		}},
		{"customer accept", http.MethodPost, "/estimates/8/accept/", ok, func() error { _, err := cus.AcceptEstimate(ctx, "8"); return err }},
		{"customer dispute", http.MethodPost, "/disputes/", ok, func() error {
			_, err := cus.OpenDispute(ctx, domain.OpenDisputeRequest{JobID: "1", Reason: "no show"})
			return err
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api.on(tc.method, tc.endpoint, tc.resp)
			if err := tc.run(); err != nil {
				t.Fatalf("call returned error: %v", err)
			}
			if c := api.last(); c.Method != tc.method || c.Endpoint != tc.endpoint {
				t.Fatalf("unexpected call %s %s, want %s %s", c.Method, c.Endpoint, tc.method, tc.endpoint)
			}
		})
	}

	admin.on(http.MethodPost, "/contractors/11/verify/", `{"message":"Contractor verified"}`)
	ack, err := adm.VerifyContractor(ctx, "11")
	if err != nil || ack.Message != "Contractor verified" {
		t.Fatalf("VerifyContractor: %+v %v", ack, err)
	}
	if c := admin.last(); c.Endpoint != "/contractors/11/verify/" {
		t.Fatalf("verification must go through the /admin requester, got %+v", c)
	}
}

func TestWorkspaceServices_Reports(t *testing.T) {
	api := newStubRequester()
	api.download = "id,total\n1,10\n"
	ctx := context.Background()

	var buf bytes.Buffer
	n, err := NewFacilityService(api).DownloadReport(ctx, "jobs", "2024-05", &buf)
	if err != nil || n != int64(buf.Len()) || !strings.HasPrefix(buf.String(), "id,total") {
		t.Fatalf("DownloadReport: %d %v %q", n, err, buf.String())
	}
	if c := api.last(); c.Endpoint != "/reports/jobs/" || c.Query != "period=2024-05" {
		t.Fatalf("unexpected call: %+v", c)
	}

	buf.Reset()
	if _, err := NewInvestorService(api).DownloadStatement(ctx, "", &buf); err != nil {
		t.Fatalf("DownloadStatement: %v", err)
	}
	if c := api.last(); c.Endpoint != "/statements/" || c.Query != "" {
		t.Fatalf("empty period must be omitted: %+v", c)
	}

	buf.Reset()
	if _, err := NewAdminService(api, api).DownloadReport(ctx, "payouts", "2024-Q1", &buf); err != nil {
		t.Fatalf("admin DownloadReport: %v", err)
	}
	if c := api.last(); c.Endpoint != "/reports/payouts/" || c.Query != "period=2024-Q1" {
		t.Fatalf("unexpected call: %+v", c)
	}
}

func TestWorkspaceServices_ReportKindStaysInOneSegment(t *testing.T) {
	api := newStubRequester()
	ctx := context.Background()

	cases := map[string]string{
		"../users":  "/reports/..%2Fusers/",
		"jobs?x=1":  "/reports/jobs%3Fx=1/",
		"jobs/open": "/reports/jobs%2Fopen/",
	}
	for kind, want := range cases {
		if _, err := NewFacilityService(api).DownloadReport(ctx, kind, "", io.Discard); err != nil {
			t.Fatalf("DownloadReport(%q): %v", kind, err)
		}
		if c := api.last(); c.Endpoint != want {
			t.Fatalf("kind %q: endpoint %q, want %q", kind, c.Endpoint, want)
		}
		if _, err := NewAdminService(api, api).DownloadReport(ctx, kind, "", io.Discard); err != nil {
			t.Fatalf("admin DownloadReport(%q): %v", kind, err)
		}
		if c := api.last(); c.Endpoint != want {
			t.Fatalf("admin kind %q: endpoint %q, want %q", kind, c.Endpoint, want)
		}
	}
}

func TestContractorService_UploadSiteVisitPhoto(t *testing.T) {
	api := newStubRequester()
	api.responses["UPLOAD /site-visits/12/photos/"] = `{"id":99,"url":"https://cdn.example.com/p.jpg","caption":"after"}`
	svc := NewContractorService(api)

	photo, err := svc.UploadSiteVisitPhoto(context.Background(), "12", "after.jpg", strings.NewReader("img"), "after")
	if err != nil {
		t.Fatalf("UploadSiteVisitPhoto: %v", err)
	}
	if photo.ID != "99" || photo.Caption != "after" {
		t.Fatalf("unexpected photo: %+v", photo)
	}
	up := api.uploads[0]
	if up.Field != "photo" || up.FileName != "after.jpg" || up.Fields["caption"] != "after" {
		t.Fatalf("unexpected upload: %+v", up)
	}

	if _, err := svc.UploadSiteVisitPhoto(context.Background(), "13", "x.jpg", strings.NewReader("img"), ""); err == nil || err.Error() != domain.MsgUploadFailed {
		t.Fatalf("expected upload failure, got %v", err)
	}
	if api.uploads[1].Fields != nil {
		t.Fatalf("empty caption must not be sent")
	}
}

func TestServices_PropagateErrorsUnchanged(t *testing.T) {
	backend := &domain.APIError{Status: http.StatusForbidden, Message: "You do not have permission to perform this action."}
	api := newStubRequester().fail(http.MethodGet, "/payouts/", backend)

	if _, err := NewInvestorService(api).ListPayouts(context.Background(), domain.ListOptions{}); err != backend {
		t.Fatalf("expected the backend error unchanged, got %v", err)
	}
}
