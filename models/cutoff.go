package models

// UnknownCollegeName is shown when a cutoff references a college that does not exist.
const UnknownCollegeName = "Unknown"

// Known quota values. Category and quota are stored as free-form strings, so
// values outside these sets are passed through untouched.
const (
	QuotaState      = "state_quota"
	QuotaAllIndia   = "all_india_quota"
	QuotaManagement = "management_quota"
	QuotaNRI        = "nri_quota"
)

// Known reservation categories.
const (
	CategoryGeneral = "General"
	CategoryOBC     = "OBC"
	CategorySC      = "SC"
	CategoryST      = "ST"
	CategoryEWS     = "EWS"
)

// Cutoff is one opening/closing rank record for a college, category, quota and year.
// A lower rank is more competitive; ClosingRank is the worst rank admitted.
type Cutoff struct {
	ID          int64  `json:"id"`
	CollegeID   int64  `json:"college_id"`
	StateID     int64  `json:"state_id"`
	Category    string `json:"category"`
	Quota       string `json:"quota"`
	Year        int    `json:"year"`
	OpeningRank int64  `json:"opening_rank"`
	ClosingRank int64  `json:"closing_rank"`
}

// CutoffWithCollege is a cutoff row with its college name resolved.
type CutoffWithCollege struct {
	Cutoff
	CollegeName string `json:"college_name"`
}
