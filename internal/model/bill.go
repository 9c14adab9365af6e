package model

// SponsorPerson and SponsorCommittee are the two arms of the sponsor
// tagged union.
const (
	SponsorPerson    = "person"
	SponsorCommittee = "committee"
)

// Sponsor is a person-or-committee tagged union. Type selects which
// fields are meaningful: BioguideID/State/District for a person, Name
// alone for a committee (already rewritten to the chamber-qualified
// legacy form).
type Sponsor struct {
	Type       string
	Name       string
	BioguideID string
	State      string
	District   string
}

// Cosponsor is one cosponsorship with its join and withdrawal dates.
type Cosponsor struct {
	BioguideID        string
	Name              string
	State             string
	District          string
	SponsoredAt       string
	WithdrawnAt       string
	OriginalCosponsor bool
}

// Title is one typed title. As is a stage qualifier ("introduced",
// "passed house", ...); nil means the source gave no stage, which is a
// valid value distinct from the empty string for current-title selection.
type Title struct {
	Type         string // "official", "short", "popular"
	As           *string
	IsForPortion bool
	Title        string
}

// Summary is the most recent summary attached to a bill.
type Summary struct {
	Date string
	As   string
	Text string
}

// RelatedBill links a bill to another bill with a reason.
type RelatedBill struct {
	Reason string
	BillID string
	Type   string // always "bill"
}

// BillCommittee is one committee (or subcommittee) referral with its
// activity list.
type BillCommittee struct {
	Committee      string
	CommitteeID    string
	Subcommittee   string
	SubcommitteeID string
	Activity       []string
}

// AmendmentRef points from a bill to one of its amendments.
type AmendmentRef struct {
	AmendmentID   string
	AmendmentType string
	Chamber       string // "h" or "s"
	Number        int
}

// SlipLaw is the public/private law designation assigned at enactment.
type SlipLaw struct {
	Congress string
	LawType  string // "public" or "private"
	Number   string
}

// Bill is the canonical record for one bill, rebuilt in full on every
// processing run. Field names mirror the published JSON key set.
type Bill struct {
	BillID   string
	BillType string
	Number   string
	Congress string

	URL string

	IntroducedAt string
	ByRequest    bool
	Sponsor      *Sponsor
	Cosponsors   []Cosponsor

	Actions   []*Action
	History   map[string]any
	Status    Status
	StatusAt  string
	EnactedAs *SlipLaw

	Titles        []Title
	OfficialTitle string
	ShortTitle    string
	PopularTitle  string

	Summary *Summary

	SubjectsTopTerm string
	Subjects        []string

	RelatedBills     []RelatedBill
	Committees       []BillCommittee
	Amendments       []AmendmentRef
	CommitteeReports []string

	UpdatedAt string
}
