package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/erickpeirson/congress/internal/bulkdata"
	"github.com/erickpeirson/congress/internal/model"
)

// BuildAmendmentID builds the composite amendment id, e.g. "samdt712-113".
func BuildAmendmentID(amdtType, number, congress string) string {
	return fmt.Sprintf("%s%s-%s", amdtType, number, congress)
}

// AmendmentFrom assembles the canonical amendment record from the raw
// amendment mapping (one entry of a bill's amendments list, or a
// standalone amendment document's body).
//
// Exactly one amendment target must resolve; an amendment that amends
// neither a bill, a treaty, nor another amendment fails assembly.
func AmendmentFrom(node *bulkdata.Node) (*model.Amendment, error) {
	amdtType := strings.ToLower(node.Str("type"))
	numberStr := node.Str("number")
	congress := node.Str("congress")
	if amdtType == "" || numberStr == "" || congress == "" {
		return nil, fmt.Errorf("amendment is missing identity fields (type=%q number=%q congress=%q)",
			amdtType, numberStr, congress)
	}
	number, err := strconv.Atoi(numberStr)
	if err != nil {
		return nil, fmt.Errorf("amendment has non-numeric number %q", numberStr)
	}
	amendmentID := BuildAmendmentID(amdtType, numberStr, congress)

	amendsBill := amendsBillFor(node.Get("amendedBill"))
	// The bulk data does not publish amendments to treaties; the slot
	// stays for the legacy record shape and the exactly-one invariant.
	var amendsTreaty *model.AmendsTreaty
	amendsAmendment := amendsAmendmentFor(node.Get("amendedAmendment"))

	if amendsBill == nil && amendsTreaty == nil && amendsAmendment == nil {
		return nil, fmt.Errorf("amendment %s amends no resolvable bill, treaty, or amendment", amendmentID)
	}

	var actions []*model.Action
	for _, item := range node.List("actions", "actions", "item") {
		a := ActionFor(item)
		ClassifyAmendmentAction(a)
		actions = append(actions, a)
	}

	introducedAt := node.Str("submittedDate")
	if len(introducedAt) > 10 {
		introducedAt = introducedAt[:10]
	}

	status := AmendmentStatus(actions, introducedAt)

	amdt := &model.Amendment{
		AmendmentID:   amendmentID,
		AmendmentType: amdtType,
		Chamber:       amdtType[:1],
		Number:        number,
		Congress:      congress,

		AmendsBill:      amendsBill,
		AmendsTreaty:    amendsTreaty,
		AmendsAmendment: amendsAmendment,

		Sponsor: amendmentSponsorFor(node.First("sponsors", "item"), amdtType),

		// Duplicate source elements decode as lists; the first element
		// is the value.
		Purpose:     node.FirstStr("purpose"),
		Description: node.FirstStr("description"),

		IntroducedAt: introducedAt,

		Actions:  actions,
		Status:   status.Status,
		StatusAt: status.StatusAt,

		UpdatedAt: node.Str("updateDate"),
	}

	if amdt.Chamber == "s" {
		amdt.ProposedAt = node.Str("proposedDate")
	}

	return amdt, nil
}

func amendsBillFor(node *bulkdata.Node) *model.AmendsBill {
	if node.IsEmpty() {
		return nil
	}
	billType := strings.ToLower(node.Str("type"))
	congress, _ := strconv.Atoi(node.Str("congress"))
	number, _ := strconv.Atoi(node.Str("number"))
	return &model.AmendsBill{
		BillID:   BuildBillID(billType, node.Str("number"), node.Str("congress")),
		BillType: billType,
		Congress: congress,
		Number:   number,
	}
}

func amendsAmendmentFor(node *bulkdata.Node) *model.AmendsAmendment {
	if node.IsEmpty() {
		return nil
	}
	amdtType := strings.ToLower(node.Str("type"))
	congress, _ := strconv.Atoi(node.Str("congress"))
	number, _ := strconv.Atoi(node.Str("number"))
	return &model.AmendsAmendment{
		AmendmentID:   BuildAmendmentID(amdtType, node.Str("number"), node.Str("congress")),
		AmendmentType: amdtType,
		Congress:      congress,
		Number:        number,
		Purpose:       node.FirstStr("purpose"),
		Description:   node.FirstStr("description"),
	}
}

var committeeNameRe = regexp.MustCompile(`^(.*) Committee$`)

// amendmentSponsorFor parses an amendment's sponsor. Committees can
// sponsor amendments; a committee's raw name ("Rules Committee") is
// rewritten to the chamber-qualified legacy form ("House Rules").
func amendmentSponsorFor(item *bulkdata.Node, amdtType string) *model.Sponsor {
	if item == nil {
		return nil
	}
	if item.Str("bioguideId") == "" && item.Str("name") != "" {
		name := item.Str("name")
		if m := committeeNameRe.FindStringSubmatch(name); m != nil {
			chamber := "Senate"
			if strings.HasPrefix(amdtType, "h") {
				chamber = "House"
			}
			name = chamber + " " + m[1]
		}
		return &model.Sponsor{
			Type: model.SponsorCommittee,
			Name: name,
		}
	}
	return personSponsorFor(item)
}
