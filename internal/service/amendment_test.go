package service

import (
	"testing"

	"github.com/erickpeirson/congress/internal/model"
)

const amendmentFixture = `<amendment>
  <type>SAMDT</type>
  <number>45</number>
  <congress>113</congress>
  <updateDate>2013-07-01T10:00:00Z</updateDate>
  <submittedDate>2013-06-20T00:00:00Z</submittedDate>
  <proposedDate>2013-06-21</proposedDate>
  <purpose>To improve border security.</purpose>
  <description>First description.</description>
  <description>Second description.</description>
  <amendedBill>
    <type>S</type>
    <number>744</number>
    <congress>113</congress>
  </amendedBill>
  <sponsors>
    <item>
      <fullName>Sen. Leahy, Patrick J. [D-VT]</fullName>
      <bioguideId>L000174</bioguideId>
      <state>VT</state>
    </item>
  </sponsors>
  <actions>
    <count>2</count>
    <actions>
      <item>
        <actionDate>2013-06-21</actionDate>
        <text>Amendment SA 45 proposed by Senator Leahy. (consideration: CR S4721)</text>
        <sourceSystem><name>Senate</name></sourceSystem>
      </item>
      <item>
        <actionDate>2013-06-24</actionDate>
        <text>Proposed amendment SA 45 withdrawn in Senate.</text>
        <sourceSystem><name>Senate</name></sourceSystem>
      </item>
    </actions>
  </actions>
</amendment>
`

func parseAmendmentFixture(t *testing.T) *model.Amendment {
	t.Helper()
	root := parseNode(t, amendmentFixture, forceListElements...)
	amdt, err := AmendmentFrom(root.First("amendment"))
	if err != nil {
		t.Fatalf("assemble amendment: %v", err)
	}
	return amdt
}

func TestAmendmentFromIdentity(t *testing.T) {
	amdt := parseAmendmentFixture(t)

	if amdt.AmendmentID != "samdt45-113" {
		t.Fatalf("unexpected amendment id: %q", amdt.AmendmentID)
	}
	if amdt.AmendmentType != "samdt" || amdt.Chamber != "s" || amdt.Number != 45 {
		t.Fatalf("unexpected identity: %q %q %d", amdt.AmendmentType, amdt.Chamber, amdt.Number)
	}
}

func TestAmendmentFromDates(t *testing.T) {
	amdt := parseAmendmentFixture(t)

	if amdt.IntroducedAt != "2013-06-20" {
		t.Fatalf("introduced_at must be the date part of the submission, got %q", amdt.IntroducedAt)
	}
	if amdt.ProposedAt != "2013-06-21" {
		t.Fatalf("unexpected proposed_at: %q", amdt.ProposedAt)
	}
}

func TestAmendmentFromTarget(t *testing.T) {
	amdt := parseAmendmentFixture(t)

	if amdt.AmendsBill == nil {
		t.Fatalf("expected a bill target")
	}
	if amdt.AmendsBill.BillID != "s744-113" || amdt.AmendsBill.Number != 744 {
		t.Fatalf("unexpected bill target: %+v", amdt.AmendsBill)
	}
	if amdt.AmendsTreaty != nil || amdt.AmendsAmendment != nil {
		t.Fatalf("exactly one target must resolve")
	}
}

func TestAmendmentFromActionsAndStatus(t *testing.T) {
	amdt := parseAmendmentFixture(t)

	if len(amdt.Actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(amdt.Actions))
	}
	if amdt.Actions[1].Type != model.ActionWithdrawn {
		t.Fatalf("expected withdrawn action, got %q", amdt.Actions[1].Type)
	}
	if amdt.Status != model.AmdtStatusWithdrawn {
		t.Fatalf("expected withdrawn status, got %q", amdt.Status)
	}
	if amdt.StatusAt != "2013-06-24" {
		t.Fatalf("unexpected status_at: %q", amdt.StatusAt)
	}

	refs := amdt.Actions[0].References
	if len(refs) != 1 || refs[0].Reference != "CR S4721" {
		t.Fatalf("unexpected references: %+v", refs)
	}
}

func TestAmendmentFromDuplicateDescriptions(t *testing.T) {
	amdt := parseAmendmentFixture(t)

	if amdt.Description != "First description." {
		t.Fatalf("duplicate elements must resolve to the first, got %q", amdt.Description)
	}
	if amdt.Purpose != "To improve border security." {
		t.Fatalf("unexpected purpose: %q", amdt.Purpose)
	}
}

func TestAmendmentFromRequiresATarget(t *testing.T) {
	root := parseNode(t, `<amendment>
  <type>SAMDT</type>
  <number>46</number>
  <congress>113</congress>
</amendment>`, forceListElements...)

	if _, err := AmendmentFrom(root.First("amendment")); err == nil {
		t.Fatalf("expected error for amendment with no target")
	}
}

func TestAmendmentFromAmendsAmendment(t *testing.T) {
	root := parseNode(t, `<amendment>
  <type>SAMDT</type>
  <number>47</number>
  <congress>113</congress>
  <amendedAmendment>
    <type>SAMDT</type>
    <number>45</number>
    <congress>113</congress>
    <purpose>In the nature of a substitute.</purpose>
  </amendedAmendment>
</amendment>`, forceListElements...)

	amdt, err := AmendmentFrom(root.First("amendment"))
	if err != nil {
		t.Fatalf("assemble amendment: %v", err)
	}
	if amdt.AmendsAmendment == nil || amdt.AmendsAmendment.AmendmentID != "samdt45-113" {
		t.Fatalf("unexpected amendment target: %+v", amdt.AmendsAmendment)
	}
}

func TestAmendmentFromMissingIdentity(t *testing.T) {
	root := parseNode(t, `<amendment><type>SAMDT</type></amendment>`)
	if _, err := AmendmentFrom(root.First("amendment")); err == nil {
		t.Fatalf("expected error for missing identity fields")
	}
}

func TestAmendmentCommitteeSponsorRename(t *testing.T) {
	root := parseNode(t, `<amendment>
  <type>HAMDT</type>
  <number>12</number>
  <congress>113</congress>
  <amendedBill><type>HR</type><number>1234</number><congress>113</congress></amendedBill>
  <sponsors>
    <item><name>Rules Committee</name></item>
  </sponsors>
</amendment>`, forceListElements...)

	amdt, err := AmendmentFrom(root.First("amendment"))
	if err != nil {
		t.Fatalf("assemble amendment: %v", err)
	}
	if amdt.Sponsor == nil || amdt.Sponsor.Type != model.SponsorCommittee {
		t.Fatalf("expected committee sponsor, got %+v", amdt.Sponsor)
	}
	if amdt.Sponsor.Name != "House Rules" {
		t.Fatalf("unexpected committee name: %q", amdt.Sponsor.Name)
	}
}

func TestAmendmentCommitteeSponsorSenate(t *testing.T) {
	if got := amendmentSponsorFor(parseNode(t, `<item><name>Appropriations Committee</name></item>`).Get("item"), "samdt"); got.Name != "Senate Appropriations" {
		t.Fatalf("unexpected committee name: %q", got.Name)
	}
}

func TestHouseAmendmentHasNoProposedAt(t *testing.T) {
	root := parseNode(t, `<amendment>
  <type>HAMDT</type>
  <number>12</number>
  <congress>113</congress>
  <proposedDate>2013-06-21</proposedDate>
  <amendedBill><type>HR</type><number>1234</number><congress>113</congress></amendedBill>
</amendment>`, forceListElements...)

	amdt, err := AmendmentFrom(root.First("amendment"))
	if err != nil {
		t.Fatalf("assemble amendment: %v", err)
	}
	if amdt.ProposedAt != "" {
		t.Fatalf("house amendments carry no proposed_at, got %q", amdt.ProposedAt)
	}
}
