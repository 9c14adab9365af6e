package model

// AmendsBill identifies the bill an amendment amends.
type AmendsBill struct {
	BillID   string
	BillType string
	Congress int
	Number   int
}

// AmendsTreaty identifies the treaty an amendment amends.
type AmendsTreaty struct {
	TreatyID string
	Congress int
	Number   int
}

// AmendsAmendment identifies the amendment an amendment amends.
type AmendsAmendment struct {
	AmendmentID   string
	AmendmentType string
	Congress      int
	Number        int
	Purpose       string
	Description   string
}

// Amendment is the canonical record for one amendment. Exactly one of
// AmendsBill, AmendsTreaty, AmendsAmendment is non-nil after assembly;
// an amendment with no resolvable target is a construction error.
//
// Amendments carry their own action sequence and derived status,
// independent of the host bill's.
type Amendment struct {
	AmendmentID   string
	AmendmentType string
	Chamber       string // "h" or "s"
	Number        int
	Congress      string

	AmendsBill      *AmendsBill
	AmendsTreaty    *AmendsTreaty
	AmendsAmendment *AmendsAmendment
	HouseNumber     int // sequence number for house amendments, 0 if none

	Sponsor     *Sponsor
	Purpose     string
	Description string

	IntroducedAt string
	ProposedAt   string // senate amendments only

	Actions  []*Action
	Status   Status
	StatusAt string

	UpdatedAt string
}
