package domain

import "time"

// AnalysisStatus tracks the lifecycle of an analysis run.
type AnalysisStatus string

const (
	AnalysisPending  AnalysisStatus = "pending"
	AnalysisComplete AnalysisStatus = "complete"
	AnalysisFailed   AnalysisStatus = "failed"
)

// Analysis is one stored analysis run of a playlist. Report and
// Recommendations are only populated once the run completes.
type Analysis struct {
	ID              string           `json:"id"`
	PlaylistID      string           `json:"playlist_id"`
	PlaylistName    string           `json:"playlist_name,omitempty"`
	PlaylistOwner   string           `json:"playlist_owner,omitempty"`
	TrackCount      int              `json:"track_count"`
	Status          AnalysisStatus   `json:"status"`
	Error           string           `json:"error,omitempty"`
	Report          *ScoreReport     `json:"report,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}
