package domain

// Region is an entry in the region directory.
type Region struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	State      string `json:"state,omitempty"`
	Population int64  `json:"population,omitempty"`
}

// RegionSummary is a region joined with its most recent prediction, for the
// dashboard listing. The latest fields are nil when the region has never been
// assessed.
type RegionSummary struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	State           string     `json:"state,omitempty"`
	LatestRiskLevel *RiskLevel `json:"latest_risk_level"`
	LatestRiskScore *int       `json:"latest_risk_score"`
}

// DashboardStats are the headline numbers for the authority dashboard.
type DashboardStats struct {
	TotalUsers    int64 `json:"total_users"`
	TotalRegions  int64 `json:"total_regions"`
	AlertsSent24h int64 `json:"alerts_sent_24h"`
}
