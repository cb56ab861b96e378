package domain

// Criterion names one scored aspect of a playlist.
type Criterion string

const (
	ArtistDiversity   Criterion = "artist_diversity"
	GenreDiversity    Criterion = "genre_diversity"
	PopularityBalance Criterion = "popularity_balance"
	LengthAdequacy    Criterion = "length_adequacy"
)

// Criteria lists every criterion in declaration order. The order doubles as
// the deterministic tie-break when two weaknesses share a subscore.
func Criteria() []Criterion {
	return []Criterion{ArtistDiversity, GenreDiversity, PopularityBalance, LengthAdequacy}
}

// ScoreReport is the output of the scoring engine. Overall and every
// subscore lie in [0, 100]; Weaknesses is ordered worst-first.
type ScoreReport struct {
	Overall    float64               `json:"overall"`
	Subscores  map[Criterion]float64 `json:"subscores"`
	Weaknesses []Criterion           `json:"weaknesses"`
}

// Recommendation pairs a suggested track with the weakness that motivated it.
type Recommendation struct {
	Track  Track     `json:"track"`
	Reason Criterion `json:"reason"`
}
