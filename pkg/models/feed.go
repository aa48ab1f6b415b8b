package models

// Feed is the manifest stored alongside snapshot records. It describes the
// packed bundle, not any per-session view state.
type Feed struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	// Created timestamp (ns)
	CreatedTS int64 `json:"created_ts,omitempty"`
	// Count is the number of records packed into the snapshot.
	Count int `json:"count"`
	// Source names the file the snapshot was packed from, for operators.
	Source string `json:"source,omitempty"`
}
