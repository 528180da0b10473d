package domain

import "time"

// OccupiedSlot is the externally visible projection of a live booking or an
// unexpired hold, used purely for conflict rendering. The holder's name is
// masked unless the viewer is staff or the booking's own holder. It is never
// used for authorization decisions; writers re-validate against the
// authoritative records at commit time.
type OccupiedSlot struct {
	MaskedName    string
	StartTime     time.Time
	DurationHours int
	Confirmed     bool
}
