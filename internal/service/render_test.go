package service

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/erickpeirson/congress/internal/model"
)

func TestFormatDateTime(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2013-07-15T12:00:00Z", "2013-07-15T12:00:00+00:00"},
		{"2013-07-15T12:00:00-04:00", "2013-07-15T12:00:00-04:00"},
		{"2013-05-10T14:30:00", "2013-05-10T14:30:00"},
		{"2013-03-04", "2013-03-04"},
		{"", ""},
	}
	for _, c := range cases {
		if got := FormatDateTime(c.in); got != c.want {
			t.Fatalf("FormatDateTime(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBillJSONShape(t *testing.T) {
	bill := parseBillFixture(t)

	out, err := BillJSON(bill)
	if err != nil {
		t.Fatalf("render JSON: %v", err)
	}
	if !bytes.HasSuffix(out, []byte("\n")) {
		t.Fatalf("artifact must end with a newline")
	}

	var doc map[string]any
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("unmarshal rendered JSON: %v", err)
	}
	if doc["bill_id"] != "hr1234-113" {
		t.Fatalf("unexpected bill_id: %v", doc["bill_id"])
	}
	if doc["status"] != "PASSED" {
		t.Fatalf("unexpected status: %v", doc["status"])
	}
	actions, ok := doc["actions"].([]any)
	if !ok || len(actions) != 3 {
		t.Fatalf("unexpected actions: %v", doc["actions"])
	}

	vote, ok := actions[2].(map[string]any)
	if !ok {
		t.Fatalf("unexpected action shape: %v", actions[2])
	}
	if vote["type"] != "vote" || vote["roll"] != float64(413) {
		t.Fatalf("unexpected vote action: %v", vote)
	}
	if _, present := vote["calendar"]; present {
		t.Fatalf("vote action must not carry calendar fields")
	}

	generic, ok := actions[0].(map[string]any)
	if !ok {
		t.Fatalf("unexpected action shape: %v", actions[0])
	}
	for _, key := range []string{"how", "roll", "where", "result"} {
		if _, present := generic[key]; present {
			t.Fatalf("generic action must not carry vote field %q", key)
		}
	}
}

func TestBillJSONIsDeterministic(t *testing.T) {
	bill := parseBillFixture(t)

	first, err := BillJSON(bill)
	if err != nil {
		t.Fatalf("render JSON: %v", err)
	}
	second, err := BillJSON(bill)
	if err != nil {
		t.Fatalf("render JSON: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("same record rendered different bytes")
	}
}

func TestAmendmentJSONConditionalFields(t *testing.T) {
	amdt := parseAmendmentFixture(t)

	out, err := AmendmentJSON(amdt)
	if err != nil {
		t.Fatalf("render JSON: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("unmarshal rendered JSON: %v", err)
	}

	if doc["description"] != "First description." {
		t.Fatalf("unexpected description: %v", doc["description"])
	}
	if doc["proposed_at"] != "2013-06-21" {
		t.Fatalf("senate amendment must carry proposed_at, got %v", doc["proposed_at"])
	}
	if _, present := doc["house_number"]; present {
		t.Fatalf("house_number must be omitted when absent")
	}
	if doc["status"] != "withdrawn" {
		t.Fatalf("unexpected status: %v", doc["status"])
	}
}

func TestAmendmentJSONHouseOmitsSenateFields(t *testing.T) {
	amdt := &model.Amendment{
		AmendmentID:   "hamdt12-113",
		AmendmentType: "hamdt",
		Chamber:       "h",
		Number:        12,
		Congress:      "113",
		AmendsBill:    &model.AmendsBill{BillID: "hr1234-113", BillType: "hr", Congress: 113, Number: 1234},
		Status:        model.AmdtStatusOffered,
	}

	out, err := AmendmentJSON(amdt)
	if err != nil {
		t.Fatalf("render JSON: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("unmarshal rendered JSON: %v", err)
	}
	for _, key := range []string{"proposed_at", "description", "house_number"} {
		if _, present := doc[key]; present {
			t.Fatalf("%q must be omitted for this amendment", key)
		}
	}
}

func TestBillXMLRootAndVoteAttributeOrder(t *testing.T) {
	bill := parseBillFixture(t)

	out, err := BillXML(bill, RenderOptions{})
	if err != nil {
		t.Fatalf("render XML: %v", err)
	}
	xml := string(out)

	if !strings.Contains(xml, `<bill session="113" type="h" number="1234" updated="2013-07-15T12:00:00+00:00">`) {
		t.Fatalf("unexpected root element in:\n%s", xml)
	}
	if !strings.Contains(xml, `<vote how="roll" type="vote" roll="413" datetime="2013-05-10T14:30:00" where="h" result="pass" state="PASSED">`) {
		t.Fatalf("vote attribute order not preserved in:\n%s", xml)
	}
	if !strings.Contains(xml, `<sponsor bioguide_id="S000510"/>`) {
		t.Fatalf("missing sponsor element in:\n%s", xml)
	}
	if !strings.Contains(xml, `<committee code="HSVR03"`) {
		t.Fatalf("missing subcommittee row in:\n%s", xml)
	}
	if !strings.Contains(xml, `subcommittee="Health" activity="Referred To"/>`) {
		t.Fatalf("unexpected subcommittee attributes in:\n%s", xml)
	}
	if !strings.Contains(xml, `<bill session="113" type="s" number="744" relation="identical"/>`) {
		t.Fatalf("unexpected related bill element in:\n%s", xml)
	}
}

func TestTitleCaseWords(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"referred to", "Referred To"},
		{"re-referred", "Re-Referred"},
		{"markup by", "Markup By"},
		{"", ""},
	}
	for _, c := range cases {
		if got := titleCaseWords(c.in); got != c.want {
			t.Fatalf("titleCaseWords(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBillXMLRejectsMalformedRelatedBillID(t *testing.T) {
	bill := parseBillFixture(t)
	bill.RelatedBills = append(bill.RelatedBills, model.RelatedBill{
		Reason: "related",
		BillID: "not a bill id",
		Type:   "bill",
	})

	if _, err := BillXML(bill, RenderOptions{}); err == nil {
		t.Fatalf("expected error for malformed related bill id")
	}
}

func TestBillXMLEnactedAttributeOrder(t *testing.T) {
	bill := &model.Bill{
		BillID:   "hr10-113",
		BillType: "hr",
		Number:   "10",
		Congress: "113",
		Status:   model.StatusEnacted,
		StatusAt: "2013-06-05",
		Actions: []*model.Action{
			{
				Type:      model.ActionEnacted,
				ActedAt:   "2013-06-05",
				Text:      "Became Public Law No: 113-22.",
				Law:       "public",
				LawNumber: "22",
				Status:    "ENACTED",
			},
		},
	}

	out, err := BillXML(bill, RenderOptions{})
	if err != nil {
		t.Fatalf("render XML: %v", err)
	}
	if !strings.Contains(string(out), `<enacted number="113-22" type="public" datetime="2013-06-05" state="ENACTED">`) {
		t.Fatalf("enacted attribute order not preserved in:\n%s", out)
	}
}

func TestBillXMLGovTrackRewritesSponsorIDs(t *testing.T) {
	bill := parseBillFixture(t)
	ids := NewLegislatorIDs(map[string]int{
		"S000510": 400379,
		"B000944": 400050,
	})

	out, err := BillXML(bill, RenderOptions{GovTrack: true, IDs: ids})
	if err != nil {
		t.Fatalf("render XML: %v", err)
	}
	xml := string(out)

	if !strings.Contains(xml, `<sponsor id="400379"/>`) {
		t.Fatalf("sponsor id not rewritten in:\n%s", xml)
	}
	if !strings.Contains(xml, `<cosponsor id="400050" joined="2013-03-05"/>`) {
		t.Fatalf("cosponsor id not rewritten in:\n%s", xml)
	}
	// An id with no translation keeps its bioguide form.
	if !strings.Contains(xml, `<cosponsor bioguide_id="C001075" joined="2013-04-01"/>`) {
		t.Fatalf("untranslated id must keep bioguide form in:\n%s", xml)
	}
}

func TestAmendmentXMLLayout(t *testing.T) {
	amdt := parseAmendmentFixture(t)

	out, err := AmendmentXML(amdt, RenderOptions{})
	if err != nil {
		t.Fatalf("render XML: %v", err)
	}
	xml := string(out)

	if !strings.Contains(xml, `<amendment session="113" chamber="s" number="45" updated="2013-07-01T10:00:00+00:00">`) {
		t.Fatalf("unexpected root element in:\n%s", xml)
	}
	if !strings.Contains(xml, `<amends type="s" number="744" sequence=""/>`) {
		t.Fatalf("unexpected amends element in:\n%s", xml)
	}
	if !strings.Contains(xml, `<status datetime="2013-06-24">withdrawn</status>`) {
		t.Fatalf("unexpected status element in:\n%s", xml)
	}
	if !strings.Contains(xml, `<offered datetime="2013-06-20"/>`) {
		t.Fatalf("unexpected offered element in:\n%s", xml)
	}
	if !strings.Contains(xml, `<description>First description.</description>`) {
		t.Fatalf("unexpected description element in:\n%s", xml)
	}
	if !strings.Contains(xml, `<purpose>To improve border security.</purpose>`) {
		t.Fatalf("unexpected purpose element in:\n%s", xml)
	}
}

func TestAmendmentXMLVoteLayout(t *testing.T) {
	roll := 156
	amdt := &model.Amendment{
		AmendmentID:   "samdt50-113",
		AmendmentType: "samdt",
		Chamber:       "s",
		Number:        50,
		Congress:      "113",
		AmendsBill:    &model.AmendsBill{BillID: "s744-113", BillType: "s", Congress: 113, Number: 744},
		Status:        model.AmdtStatusFail,
		StatusAt:      "2013-06-22",
		Actions: []*model.Action{
			{
				Type:    model.ActionVote,
				ActedAt: "2013-06-22",
				Text:    "Amendment SA 50 not agreed to in Senate by Yea-Nay Vote. 46 - 53. Record Vote Number: 156.",
				How:     "roll",
				Result:  model.VoteFail,
				Roll:    &roll,
			},
		},
	}

	out, err := AmendmentXML(amdt, RenderOptions{})
	if err != nil {
		t.Fatalf("render XML: %v", err)
	}
	if !strings.Contains(string(out), `<vote datetime="2013-06-22" how="roll" result="fail" roll="156">`) {
		t.Fatalf("vote attribute order not preserved in:\n%s", out)
	}
}

func TestAmendmentXMLPurposeOnlyFallsBackToDescription(t *testing.T) {
	amdt := &model.Amendment{
		AmendmentID:   "samdt51-113",
		AmendmentType: "samdt",
		Chamber:       "s",
		Number:        51,
		Congress:      "113",
		AmendsBill:    &model.AmendsBill{BillID: "s744-113", BillType: "s", Congress: 113, Number: 744},
		Status:        model.AmdtStatusOffered,
		Purpose:       "To strike section 3.",
	}

	out, err := AmendmentXML(amdt, RenderOptions{})
	if err != nil {
		t.Fatalf("render XML: %v", err)
	}
	xml := string(out)

	if !strings.Contains(xml, `<description>To strike section 3.</description>`) {
		t.Fatalf("description must fall back to purpose in:\n%s", xml)
	}
	if strings.Contains(xml, `<purpose>`) {
		t.Fatalf("purpose element must be omitted when it is the description:\n%s", xml)
	}
}
