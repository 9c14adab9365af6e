package service

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/erickpeirson/congress/internal/bulkdata"
	"github.com/erickpeirson/congress/internal/model"
)

const bulkDataBaseURL = "https://www.gpo.gov/fdsys/bulkdata/"

// BuildBillID builds the composite bill id, e.g. "hr1234-113".
func BuildBillID(billType, number, congress string) string {
	return fmt.Sprintf("%s%s-%s", billType, number, congress)
}

// BillStatusURL is the canonical source URL for a bill's bulk-data file.
func BillStatusURL(billType, number, congress string) string {
	return fmt.Sprintf("%sBILLSTATUS/%s/%s/BILLSTATUS-%s%s%s.xml",
		bulkDataBaseURL, congress, billType, congress, billType, number)
}

// OriginChamber reports the chamber a bill type originates in.
func OriginChamber(billType string) model.Chamber {
	if strings.HasPrefix(billType, "h") {
		return model.ChamberHouse
	}
	return model.ChamberSenate
}

// BillFrom assembles the canonical bill record from a parsed bulk-data
// tree rooted at the document element.
func BillFrom(root *bulkdata.Node) (*model.Bill, error) {
	billNode := root.Get("billStatus", "bill")
	if billNode == nil {
		return nil, fmt.Errorf("bulk data has no billStatus.bill element")
	}

	billType := strings.ToLower(billNode.Str("billType"))
	number := billNode.Str("billNumber")
	congress := billNode.Str("congress")
	if billType == "" || number == "" || congress == "" {
		return nil, fmt.Errorf("bill is missing identity fields (type=%q number=%q congress=%q)",
			billType, number, congress)
	}
	billID := BuildBillID(billType, number, congress)

	titles := titlesFor(billNode.List("titles", "item"))

	origin := OriginChamber(billType)
	var actions []*model.Action
	for _, item := range billNode.List("actions", "item") {
		a := ActionFor(item)
		ClassifyBillAction(a, origin)
		actions = append(actions, a)
	}

	introducedAt := billNode.Str("introducedDate")
	status := BillStatus(actions, introducedAt)

	bill := &model.Bill{
		BillID:   billID,
		BillType: billType,
		Number:   number,
		Congress: congress,

		URL: BillStatusURL(billType, number, congress),

		IntroducedAt: introducedAt,
		ByRequest:    billNode.First("sponsors", "item").Str("byRequestType") != "",
		Sponsor:      personSponsorFor(billNode.First("sponsors", "item")),
		Cosponsors:   cosponsorsFor(billNode.Get("cosponsors")),

		Actions:   actions,
		History:   HistoryFromActions(actions),
		Status:    status.Status,
		StatusAt:  status.StatusAt,
		EnactedAs: SlipLawFrom(actions, congress),

		Titles:        titles,
		OfficialTitle: CurrentTitleFor(titles, "official"),
		ShortTitle:    CurrentTitleFor(titles, "short"),
		PopularTitle:  CurrentTitleFor(titles, "popular"),

		Summary: summaryFor(billNode.Get("summaries", "billSummaries")),

		RelatedBills:     relatedBillsFor(billNode.Get("relatedBills")),
		Committees:       committeesFor(billNode.Get("committees", "billCommittees")),
		Amendments:       amendmentRefsFor(billNode.Get("amendments")),
		CommitteeReports: committeeReportsFor(billNode.Get("committeeReports")),

		UpdatedAt: billNode.Str("updateDate"),
	}

	bill.SubjectsTopTerm, bill.Subjects = subjectsFor(billNode)

	return bill, nil
}

// topTermCaseExceptions lists top terms that must keep their published
// capitalization instead of the legacy lower-cased form.
var topTermCaseExceptions = map[string]bool{
	"Native Americans": true,
}

// fixupTopTermCase rewrites a Title Case policy-area term to the legacy
// capitalization (first letter only), modulo the proper-noun exceptions.
func fixupTopTermCase(term string) string {
	if topTermCaseExceptions[term] {
		return term
	}
	if term == "" {
		return term
	}
	return strings.ToUpper(term[:1]) + strings.ToLower(term[1:])
}

// subjectsFor returns the case-normalized top term and the deduplicated,
// sorted union of the top term and the legislative subjects.
func subjectsFor(billNode *bulkdata.Node) (string, []string) {
	topTerm := ""
	if name := billNode.Str("policyArea", "name"); name != "" {
		topTerm = fixupTopTermCase(name)
	}

	seen := make(map[string]bool)
	subjects := []string{}
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			subjects = append(subjects, s)
		}
	}

	add(topTerm)
	for _, item := range billNode.List("subjects", "billSubjects", "legislativeSubjects", "item") {
		add(item.Str("name"))
	}
	sort.Strings(subjects)

	return topTerm, subjects
}

// titlesFor converts raw title items, splitting the descriptive
// titleType string into (type, as-stage, portion flag).
func titlesFor(items []*bulkdata.Node) []model.Title {
	var titles []model.Title
	for _, item := range items {
		raw := item.Str("titleType")
		lower := strings.ToLower(raw)

		titleType := "official"
		if strings.Contains(lower, "short") {
			titleType = "short"
		} else if strings.Contains(lower, "popular") {
			titleType = "popular"
		}

		var as *string
		if i := strings.Index(lower, " as "); i >= 0 {
			stage := strings.TrimSpace(lower[i+4:])
			stage = strings.TrimSuffix(stage, " (for portion)")
			stage = strings.TrimSuffix(stage, " for portions of this bill")
			as = &stage
		}

		titles = append(titles, model.Title{
			Type:         titleType,
			As:           as,
			IsForPortion: strings.Contains(lower, "portion"),
			Title:        item.Str("title"),
		})
	}
	return titles
}

// CurrentTitleFor picks the title of the given type for the most recent
// stage: titles arrive in stage order, and within one stage the first
// title wins. A nil stage is a valid stage of its own, which is why the
// comparison tracks whether anything has been selected yet.
func CurrentTitleFor(titles []model.Title, titleType string) string {
	current := ""
	var currentAs *string
	selected := false

	for _, t := range titles {
		if t.Type != titleType || t.IsForPortion {
			continue
		}
		if selected && sameStage(t.As, currentAs) {
			continue
		}
		current = t.Title
		currentAs = t.As
		selected = true
	}
	return current
}

func sameStage(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// personSponsorFor builds a person sponsor from a raw sponsor item.
func personSponsorFor(item *bulkdata.Node) *model.Sponsor {
	if item == nil {
		return nil
	}
	return &model.Sponsor{
		Type:       model.SponsorPerson,
		Name:       item.Str("fullName"),
		BioguideID: item.Str("bioguideId"),
		State:      item.Str("state"),
		District:   item.Str("district"),
	}
}

func cosponsorsFor(node *bulkdata.Node) []model.Cosponsor {
	var cosponsors []model.Cosponsor
	for _, item := range node.List("item") {
		cosponsors = append(cosponsors, model.Cosponsor{
			BioguideID:        item.Str("bioguideId"),
			Name:              item.Str("fullName"),
			State:             item.Str("state"),
			District:          item.Str("district"),
			SponsoredAt:       item.Str("sponsorshipDate"),
			WithdrawnAt:       item.Str("sponsorshipWithdrawnDate"),
			OriginalCosponsor: item.Str("isOriginalCosponsor") == "True",
		})
	}
	return cosponsors
}

// committeeCode turns a bulk-data system code ("hsas00") into the legacy
// committee id ("HSAS"); subcommitteeID keeps the trailing two digits.
func committeeCode(systemCode string) string {
	return strings.ToUpper(strings.TrimSuffix(systemCode, "00"))
}

func subcommitteeID(systemCode string) string {
	if len(systemCode) < 2 {
		return systemCode
	}
	return systemCode[len(systemCode)-2:]
}

func committeesFor(node *bulkdata.Node) []model.BillCommittee {
	var committees []model.BillCommittee
	for _, item := range node.List("item") {
		name := item.Str("name")
		code := committeeCode(item.Str("systemCode"))

		committees = append(committees, model.BillCommittee{
			Committee:   name,
			CommitteeID: code,
			Activity:    activityNames(item.Get("activities")),
		})

		for _, sub := range item.List("subcommittees", "item") {
			committees = append(committees, model.BillCommittee{
				Committee:      name,
				CommitteeID:    code,
				Subcommittee:   sub.Str("name"),
				SubcommitteeID: subcommitteeID(sub.Str("systemCode")),
				Activity:       activityNames(sub.Get("activities")),
			})
		}
	}
	return committees
}

func activityNames(node *bulkdata.Node) []string {
	names := []string{}
	for _, item := range node.List("item") {
		if name := item.Str("name"); name != "" {
			names = append(names, strings.ToLower(name))
		}
	}
	return names
}

// relatedBillReasons maps the bulk data's relationship descriptions onto
// the legacy reason vocabulary.
var relatedBillReasons = map[string]string{
	"Related bill":         "related",
	"Identical bill":       "identical",
	"Supersedes":           "supersedes",
	"Superseded by":        "superseded",
	"Procedurally-related": "procedural-related",
}

func relatedBillsFor(node *bulkdata.Node) []model.RelatedBill {
	var related []model.RelatedBill
	for _, item := range node.List("item") {
		reason := "related"
		if detail := item.First("relationshipDetails", "item"); detail != nil {
			if mapped, ok := relatedBillReasons[detail.Str("type")]; ok {
				reason = mapped
			}
		}
		related = append(related, model.RelatedBill{
			Reason: reason,
			BillID: BuildBillID(strings.ToLower(item.Str("type")), item.Str("number"), item.Str("congress")),
			Type:   "bill",
		})
	}
	return related
}

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// summaryFor returns the last (most recent) summary, with markup
// stripped from the text.
func summaryFor(node *bulkdata.Node) *model.Summary {
	items := node.List("item")
	if len(items) == 0 {
		return nil
	}
	item := items[len(items)-1]
	text := htmlTagRe.ReplaceAllString(item.Str("text"), "")
	return &model.Summary{
		Date: item.Str("actionDate"),
		As:   item.Str("actionDesc"),
		Text: strings.TrimSpace(html.UnescapeString(text)),
	}
}

func amendmentRefsFor(node *bulkdata.Node) []model.AmendmentRef {
	var refs []model.AmendmentRef
	for _, item := range node.List("amendment") {
		amdtType := strings.ToLower(item.Str("type"))
		if amdtType == "" {
			continue
		}
		number, _ := strconv.Atoi(item.Str("number"))
		refs = append(refs, model.AmendmentRef{
			AmendmentID:   BuildAmendmentID(amdtType, item.Str("number"), item.Str("congress")),
			AmendmentType: amdtType,
			Chamber:       amdtType[:1],
			Number:        number,
		})
	}
	return refs
}

func committeeReportsFor(node *bulkdata.Node) []string {
	reports := []string{}
	for _, item := range node.List("committeeReport") {
		if citation := item.Str("citation"); citation != "" {
			reports = append(reports, citation)
		}
	}
	return reports
}
