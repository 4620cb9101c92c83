package models

// PlatformStats is the admin dashboard counter set, computed on demand.
type PlatformStats struct {
	TotalUsers      int `json:"total_users"`
	TotalBrands     int `json:"total_brands"`
	ClaimedBrands   int `json:"claimed_brands"`
	TotalReviews    int `json:"total_reviews"`
	PendingReviews  int `json:"pending_reviews"`
	ApprovedReviews int `json:"approved_reviews"`
	RejectedReviews int `json:"rejected_reviews"`
	FlaggedReviews  int `json:"flagged_reviews"`
	OpenReports     int `json:"open_reports"`
	TotalLeads      int `json:"total_leads"`
}
