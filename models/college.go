package models

// College is a row of the colleges reference table. Optional columns are
// nullable in storage and serialise as null.
type College struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	FormattedName *string `json:"formatted_name"`
	StateID       int64   `json:"state_id"`
	Location      *string `json:"location"`
	Website       *string `json:"website"`
	Summary       *string `json:"summary"`
}
