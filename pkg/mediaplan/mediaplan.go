package mediaplan

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a plan version.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPlanned   Status = "planned"
	StatusApproved  Status = "approved"
	StatusBooked    Status = "booked"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsReportable reports whether a version in this status may represent its MBA
// number in read-only aggregations.
func (s Status) IsReportable() bool {
	return s == StatusBooked || s == StatusApproved || s == StatusCompleted
}

// MediaPlan groups all versions sharing one MBA number for a client campaign.
type MediaPlan struct {
	MbaNumber    string
	Uid          string
	ClientSlug   string
	ClientName   string
	CampaignName string
	Versions     []PlanVersion
}

// PlanVersion is one immutable revision of a media plan. A new version is cut
// whenever a plan is re-quoted; reporting selects exactly one version per MBA
// number.
type PlanVersion struct {
	MbaNumber     string
	VersionNumber int
	Status        Status
	CampaignStart time.Time
	CampaignEnd   time.Time
	Budget        decimal.Decimal
	LineItems     []LineItem
}

// LineItem is one media buy within a plan version, composed of one or more
// bursts on a single media type.
type LineItem struct {
	Id            int
	MbaNumber     string
	VersionNumber int
	MediaType     MediaType
	Bursts        []BurstRecord
}

// BurstRecord is a burst as persisted by the plan editor: dates and money as
// strings, exactly as entered. Normalization into a typed burst happens in the
// burst package; malformed fields degrade to zero contribution there rather
// than failing the record here.
type BurstRecord struct {
	StartDate          string  `json:"startDate"`
	EndDate            string  `json:"endDate"`
	Budget             string  `json:"budget"`
	BuyAmount          string  `json:"buyAmount"`
	Deliverables       float64 `json:"deliverables"`
	BuyType            string  `json:"buyType"`
	ClientPaysForMedia bool    `json:"clientPaysForMedia"`
	BudgetIncludesFees bool    `json:"budgetIncludesFees"`
	FeePercentage      float64 `json:"feePercentage"`
	NoAdServing        bool    `json:"noAdServing"`
}
