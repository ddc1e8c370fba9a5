package models

// State is a row of the states reference table.
type State struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
