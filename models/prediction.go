package models

// Chance is the admission-chance tier assigned by the predictor.
type Chance string

const (
	ChanceHigh   Chance = "High"
	ChanceMedium Chance = "Medium"
	ChanceLow    Chance = "Low"
)

// Rank orders tiers from most to least likely.
func (c Chance) Rank() int {
	switch c {
	case ChanceHigh:
		return 0
	case ChanceMedium:
		return 1
	default:
		return 2
	}
}

// PredictionRequest is the predictor input. DomicileState is a state name and
// only narrows state_quota rows.
type PredictionRequest struct {
	Rank          int64   `json:"rank" validate:"gt=0"`
	Category      string  `json:"category" validate:"required"`
	Quota         string  `json:"quota" validate:"required"`
	DomicileState *string `json:"domicile_state,omitempty" validate:"omitempty"`
}

// PredictionCandidate is a cutoff row joined with the college and state
// details the predictor needs. Missing joins leave the names empty.
type PredictionCandidate struct {
	Cutoff
	CollegeName string
	StateName   string
	City        *string
}

// PredictionResult is one college in the prediction output.
type PredictionResult struct {
	CollegeID   int64   `json:"college_id"`
	CollegeName string  `json:"college_name"`
	Chance      Chance  `json:"chance"`
	OpeningRank int64   `json:"opening_rank"`
	ClosingRank int64   `json:"closing_rank"`
	Year        int     `json:"year"`
	State       string  `json:"state"`
	City        *string `json:"city"`
}
