package event_bus

import "time"

// LineItemUpdated is published whenever a line item's bursts, fee flags, or
// dates change. Subscribers treat any previously persisted manual billing
// schedule for the plan version as stale.
type LineItemUpdated struct {
	MbaNumber     string
	VersionNumber int
	MediaType     string
}

// PlanVersionStatusChanged is published when a plan version moves through its
// lifecycle (draft, planned, approved, booked, completed, cancelled).
type PlanVersionStatusChanged struct {
	MbaNumber     string
	VersionNumber int
	OldStatus     string
	NewStatus     string
	ChangedAt     time.Time
}
