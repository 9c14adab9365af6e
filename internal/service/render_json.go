package service

import (
	"encoding/json"
	"time"

	"github.com/erickpeirson/congress/internal/model"
)

// FormatDateTime is the single date/time formatting hook for both output
// formats. Day-precision dates pass through; datetime strings are
// normalized to a fixed layout.
func FormatDateTime(s string) string {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("2006-01-02T15:04:05-07:00")
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.Format("2006-01-02T15:04:05")
	}
	return s
}

// BillJSON renders a bill record as its structural JSON projection:
// sorted keys, two-space indentation, dates through FormatDateTime.
func BillJSON(b *model.Bill) ([]byte, error) {
	doc := map[string]any{
		"bill_id":   b.BillID,
		"bill_type": b.BillType,
		"number":    b.Number,
		"congress":  b.Congress,

		"url": b.URL,

		"introduced_at": b.IntroducedAt,
		"by_request":    b.ByRequest,
		"sponsor":       sponsorJSON(b.Sponsor),
		"cosponsors":    cosponsorsJSON(b.Cosponsors),

		"actions":    actionsJSON(b.Actions),
		"history":    b.History,
		"status":     string(b.Status),
		"status_at":  FormatDateTime(b.StatusAt),
		"enacted_as": slipLawJSON(b.EnactedAs),

		"titles":         titlesJSON(b.Titles),
		"official_title": nullableString(b.OfficialTitle),
		"short_title":    nullableString(b.ShortTitle),
		"popular_title":  nullableString(b.PopularTitle),

		"summary": summaryJSON(b.Summary),

		"subjects_top_term": nullableString(b.SubjectsTopTerm),
		"subjects":          b.Subjects,

		"related_bills":     relatedBillsJSON(b.RelatedBills),
		"committees":        committeesJSON(b.Committees),
		"amendments":        amendmentRefsJSON(b.Amendments),
		"committee_reports": b.CommitteeReports,

		"updated_at": FormatDateTime(b.UpdatedAt),
	}
	return marshal(doc)
}

// AmendmentJSON renders an amendment record as its structural JSON
// projection.
func AmendmentJSON(a *model.Amendment) ([]byte, error) {
	doc := map[string]any{
		"amendment_id":   a.AmendmentID,
		"amendment_type": a.AmendmentType,
		"chamber":        a.Chamber,
		"number":         a.Number,
		"congress":       a.Congress,

		"amends_bill":      amendsBillJSON(a.AmendsBill),
		"amends_treaty":    amendsTreatyJSON(a.AmendsTreaty),
		"amends_amendment": amendsAmendmentJSON(a.AmendsAmendment),

		"sponsor": sponsorJSON(a.Sponsor),
		"purpose": a.Purpose,

		"introduced_at": a.IntroducedAt,
		"actions":       actionsJSON(a.Actions),
		"status":        string(a.Status),
		"status_at":     FormatDateTime(a.StatusAt),

		"updated_at": FormatDateTime(a.UpdatedAt),
	}
	if a.Description != "" {
		doc["description"] = a.Description
	}
	if a.Chamber == "s" {
		doc["proposed_at"] = a.ProposedAt
	}
	if a.HouseNumber > 0 {
		doc["house_number"] = a.HouseNumber
	}
	return marshal(doc)
}

func marshal(doc map[string]any) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func sponsorJSON(s *model.Sponsor) any {
	if s == nil {
		return nil
	}
	if s.Type == model.SponsorCommittee {
		return map[string]any{
			"type": s.Type,
			"name": s.Name,
		}
	}
	return map[string]any{
		"type":        s.Type,
		"name":        s.Name,
		"bioguide_id": s.BioguideID,
		"state":       s.State,
		"district":    nullableString(s.District),
	}
}

func cosponsorsJSON(cosponsors []model.Cosponsor) []any {
	out := []any{}
	for _, c := range cosponsors {
		entry := map[string]any{
			"bioguide_id":        c.BioguideID,
			"name":               c.Name,
			"state":              c.State,
			"district":           nullableString(c.District),
			"sponsored_at":       c.SponsoredAt,
			"withdrawn_at":       nullableString(c.WithdrawnAt),
			"original_cosponsor": c.OriginalCosponsor,
		}
		out = append(out, entry)
	}
	return out
}

func actionsJSON(actions []*model.Action) []any {
	out := []any{}
	for _, a := range actions {
		entry := map[string]any{
			"type":       string(a.Type),
			"acted_at":   FormatDateTime(a.ActedAt),
			"text":       a.Text,
			"references": referencesJSON(a.References),
		}
		if a.InCommittee != "" {
			entry["in_committee"] = a.InCommittee
		}
		if a.Status != "" {
			entry["status"] = a.Status
		}

		switch a.Type {
		case model.ActionVote, model.ActionVoteAux:
			entry["how"] = a.How
			entry["vote_type"] = a.VoteType
			entry["where"] = a.Where
			entry["result"] = string(a.Result)
			if a.Roll != nil {
				entry["roll"] = *a.Roll
			}
			if a.Suspension {
				entry["suspension"] = true
			}
		case model.ActionCalendar:
			entry["calendar"] = a.Calendar
			if a.Under != "" {
				entry["under"] = a.Under
			}
			if a.CalendarNumber != "" {
				entry["number"] = a.CalendarNumber
			}
		case model.ActionEnacted:
			entry["law"] = a.Law
			entry["number"] = a.LawNumber
		case model.ActionVetoed:
			if a.Pocket {
				entry["pocket"] = true
			}
		}

		out = append(out, entry)
	}
	return out
}

func referencesJSON(references []model.Reference) []any {
	out := []any{}
	for _, r := range references {
		out = append(out, map[string]any{
			"reference": r.Reference,
			"type":      r.Type,
		})
	}
	return out
}

func titlesJSON(titles []model.Title) []any {
	out := []any{}
	for _, t := range titles {
		var as any
		if t.As != nil {
			as = *t.As
		}
		out = append(out, map[string]any{
			"type":           t.Type,
			"as":             as,
			"is_for_portion": t.IsForPortion,
			"title":          t.Title,
		})
	}
	return out
}

func summaryJSON(s *model.Summary) any {
	if s == nil {
		return nil
	}
	return map[string]any{
		"date": s.Date,
		"as":   s.As,
		"text": s.Text,
	}
}

func slipLawJSON(s *model.SlipLaw) any {
	if s == nil {
		return nil
	}
	return map[string]any{
		"congress": s.Congress,
		"law_type": s.LawType,
		"number":   s.Number,
	}
}

func relatedBillsJSON(related []model.RelatedBill) []any {
	out := []any{}
	for _, rb := range related {
		out = append(out, map[string]any{
			"reason":  rb.Reason,
			"bill_id": rb.BillID,
			"type":    rb.Type,
		})
	}
	return out
}

func committeesJSON(committees []model.BillCommittee) []any {
	out := []any{}
	for _, c := range committees {
		entry := map[string]any{
			"committee":    c.Committee,
			"committee_id": c.CommitteeID,
			"activity":     c.Activity,
		}
		if c.Subcommittee != "" {
			entry["subcommittee"] = c.Subcommittee
			entry["subcommittee_id"] = c.SubcommitteeID
		}
		out = append(out, entry)
	}
	return out
}

func amendmentRefsJSON(refs []model.AmendmentRef) []any {
	out := []any{}
	for _, r := range refs {
		out = append(out, map[string]any{
			"amendment_id":   r.AmendmentID,
			"amendment_type": r.AmendmentType,
			"chamber":        r.Chamber,
			"number":         r.Number,
		})
	}
	return out
}

func amendsBillJSON(ab *model.AmendsBill) any {
	if ab == nil {
		return nil
	}
	return map[string]any{
		"bill_id":   ab.BillID,
		"bill_type": ab.BillType,
		"congress":  ab.Congress,
		"number":    ab.Number,
	}
}

func amendsTreatyJSON(at *model.AmendsTreaty) any {
	if at == nil {
		return nil
	}
	return map[string]any{
		"treaty_id": at.TreatyID,
		"congress":  at.Congress,
		"number":    at.Number,
	}
}

func amendsAmendmentJSON(aa *model.AmendsAmendment) any {
	if aa == nil {
		return nil
	}
	return map[string]any{
		"amendment_id":   aa.AmendmentID,
		"amendment_type": aa.AmendmentType,
		"congress":       aa.Congress,
		"number":         aa.Number,
		"purpose":        aa.Purpose,
		"description":    aa.Description,
	}
}
