package domain

// Playlist is an ordered snapshot of a public playlist, exactly as the
// catalog returned it for one analysis run. It is never mutated after
// construction.
type Playlist struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Owner  string  `json:"owner,omitempty"`
	Tracks []Track `json:"tracks"`
}

// Validate checks every track's invariants and fails on the first violation.
// An empty playlist is valid.
func (p Playlist) Validate() error {
	for _, t := range p.Tracks {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}
