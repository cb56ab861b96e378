package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidTrack indicates a track violates its data invariants.
var ErrInvalidTrack = errors.New("domain: invalid track")

// ErrNotFound indicates a stored record does not exist.
var ErrNotFound = errors.New("domain: not found")

// InvalidTrackError provides context for a failed track validation.
type InvalidTrackError struct {
	TrackID string
	Reason  string
}

func (e *InvalidTrackError) Error() string {
	if e.TrackID == "" {
		return fmt.Sprintf("invalid track: %s", e.Reason)
	}
	return fmt.Sprintf("invalid track %q: %s", e.TrackID, e.Reason)
}

func (e *InvalidTrackError) Is(target error) bool {
	return target == ErrInvalidTrack
}
