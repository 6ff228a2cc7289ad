package domain

// Dashboards aggregate the listings each role sees on its landing page.

type FacilityDashboard struct {
	OpenJobs         Page[Job]       `json:"open_jobs"`
	PendingEstimates Page[Estimate]  `json:"pending_estimates"`
	WorkOrders       Page[WorkOrder] `json:"work_orders"`
}

type InvestorDashboard struct {
	Portfolio   PortfolioSummary  `json:"portfolio"`
	Payouts     Page[Payout]      `json:"payouts"`
	Performance PerformanceReport `json:"performance"`
}

type AdminDashboard struct {
	Metrics        PlatformMetrics        `json:"metrics"`
	OpenDisputes   Page[Dispute]          `json:"open_disputes"`
	PendingReviews Page[ComplianceRecord] `json:"pending_reviews"`
	PendingPayouts Page[Payout]           `json:"pending_payouts"`
}

type ContractorDashboard struct {
	AvailableJobs Page[Job]       `json:"available_jobs"`
	SiteVisits    Page[SiteVisit] `json:"site_visits"`
	Payouts       Page[Payout]    `json:"payouts"`
}

type CustomerDashboard struct {
	Jobs      Page[Job]      `json:"jobs"`
	Estimates Page[Estimate] `json:"estimates"`
	Disputes  Page[Dispute]  `json:"disputes"`
}
