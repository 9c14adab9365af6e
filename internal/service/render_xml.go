package service

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/beevik/etree"

	"github.com/erickpeirson/congress/internal/model"
)

// govtrackTypeCodes maps bulk-data bill types onto the legacy schema's
// single- and double-letter type codes.
var govtrackTypeCodes = map[string]string{
	"hr":      "h",
	"s":       "s",
	"hres":    "hr",
	"sres":    "sr",
	"hjres":   "hj",
	"sjres":   "sj",
	"hconres": "hc",
	"sconres": "sc",
}

// RenderOptions configures the legacy XML projection.
type RenderOptions struct {
	// GovTrack rewrites bioguide_id attributes as numeric legacy ids.
	GovTrack bool
	// IDs is the translation table consulted in GovTrack mode.
	IDs *LegislatorIDs
}

type attr struct {
	key   string
	value string
}

type xmlRenderer struct {
	opts RenderOptions
}

// makeNode appends a child element with its attributes in the given
// order. Attribute order is part of the legacy schema's contract: older
// consumer toolchains are sensitive to declaration order, so attributes
// are only ever created in sequence, never patched in afterwards out of
// order.
//
// In GovTrack mode, bioguide_id attributes are rewritten to numeric id
// attributes through the translation table; an id with no translation
// keeps its bioguide form.
func (r *xmlRenderer) makeNode(parent *etree.Element, tag, text string, attrs ...attr) *etree.Element {
	e := parent.CreateElement(tag)
	for _, at := range attrs {
		key, value := at.key, at.value
		if r.opts.GovTrack && key == "bioguide_id" {
			if value == "" {
				continue
			}
			if id, ok := r.opts.IDs.GovTrackID(value); ok {
				key, value = "id", strconv.Itoa(id)
			}
		}
		e.CreateAttr(key, value)
	}
	if text != "" {
		e.SetText(text)
	}
	return e
}

func clearAttrs(e *etree.Element) {
	e.Attr = nil
}

// titleCaseWords capitalizes the first letter of every alphabetic run,
// matching the legacy activity formatting: hyphens and other non-letter
// characters start a new word ("re-referred" becomes "Re-Referred").
func titleCaseWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case isLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return b.String()
}

func serialize(doc *etree.Document) ([]byte, error) {
	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	return out, nil
}

// BillXML renders a bill record as the legacy GovTrack XML document.
func BillXML(b *model.Bill, opts RenderOptions) ([]byte, error) {
	r := &xmlRenderer{opts: opts}

	doc := etree.NewDocument()
	root := doc.CreateElement("bill")
	root.CreateAttr("session", b.Congress)
	root.CreateAttr("type", govtrackTypeCodes[b.BillType])
	root.CreateAttr("number", b.Number)
	root.CreateAttr("updated", FormatDateTime(b.UpdatedAt))

	r.makeNode(root, "state", string(b.Status), attr{"datetime", FormatDateTime(b.StatusAt)})

	// Legacy consumers expect an old-style status block; only the
	// introduced/unknown distinction survives.
	oldStatus := r.makeNode(root, "status", "")
	introducedTag := "unknown"
	if b.Status == model.StatusIntroduced || b.Status == model.StatusReferred {
		introducedTag = "introduced"
	}
	r.makeNode(oldStatus, introducedTag, "", attr{"datetime", FormatDateTime(b.StatusAt)})

	r.makeNode(root, "introduced", "", attr{"datetime", FormatDateTime(b.IntroducedAt)})

	titles := r.makeNode(root, "titles", "")
	for _, t := range b.Titles {
		attrs := []attr{{"type", t.Type}}
		if t.As != nil && *t.As != "" {
			attrs = append(attrs, attr{"as", *t.As})
		}
		if t.IsForPortion {
			attrs = append(attrs, attr{"partial", "1"})
		}
		r.makeNode(titles, "title", t.Title, attrs...)
	}

	if b.Sponsor != nil {
		r.makeNode(root, "sponsor", "", attr{"bioguide_id", b.Sponsor.BioguideID})
	} else {
		r.makeNode(root, "sponsor", "")
	}

	cosponsors := r.makeNode(root, "cosponsors", "")
	for _, c := range b.Cosponsors {
		attrs := []attr{{"bioguide_id", c.BioguideID}}
		if c.SponsoredAt != "" {
			attrs = append(attrs, attr{"joined", c.SponsoredAt})
		}
		if c.WithdrawnAt != "" {
			attrs = append(attrs, attr{"withdrawn", c.WithdrawnAt})
		}
		r.makeNode(cosponsors, "cosponsor", "", attrs...)
	}

	actions := r.makeNode(root, "actions", "")
	for _, a := range b.Actions {
		r.renderBillAction(actions, b, a)
	}

	committees := r.makeNode(root, "committees", "")
	for _, c := range b.Committees {
		code := c.CommitteeID
		if c.SubcommitteeID != "" {
			code = c.CommitteeID + c.SubcommitteeID
		}
		activities := make([]string, len(c.Activity))
		for i, act := range c.Activity {
			activities[i] = titleCaseWords(act)
		}
		r.makeNode(committees, "committee", "",
			attr{"code", code},
			attr{"name", c.Committee},
			attr{"subcommittee", strings.Replace(c.Subcommittee, "Subcommittee on ", "", 1)},
			attr{"activity", strings.Join(activities, ", ")})
	}

	relatedbills := r.makeNode(root, "relatedbills", "")
	for _, rb := range b.RelatedBills {
		if rb.Type != "bill" {
			continue
		}
		rbType, rbNumber, rbCongress, err := SplitBillID(rb.BillID)
		if err != nil {
			return nil, fmt.Errorf("failed to render related bill for %s: %w", b.BillID, err)
		}
		relation := rb.Reason
		if relation == "related" {
			relation = "unknown"
		}
		r.makeNode(relatedbills, "bill", "",
			attr{"session", rbCongress},
			attr{"type", govtrackTypeCodes[rbType]},
			attr{"number", rbNumber},
			attr{"relation", relation})
	}

	subjects := r.makeNode(root, "subjects", "")
	if b.SubjectsTopTerm != "" {
		r.makeNode(subjects, "term", "", attr{"name", b.SubjectsTopTerm})
	}
	for _, s := range b.Subjects {
		if s != b.SubjectsTopTerm {
			r.makeNode(subjects, "term", "", attr{"name", s})
		}
	}

	amendments := r.makeNode(root, "amendments", "")
	for _, amd := range b.Amendments {
		r.makeNode(amendments, "amendment", "", attr{"number", amd.Chamber + strconv.Itoa(amd.Number)})
	}

	if b.Summary != nil {
		r.makeNode(root, "summary", b.Summary.Text,
			attr{"date", b.Summary.Date},
			attr{"status", b.Summary.As})
	}

	committeeReports := r.makeNode(root, "committee-reports", "")
	for _, report := range b.CommitteeReports {
		r.makeNode(committeeReports, "report", report)
	}

	return serialize(doc)
}

// renderBillAction emits one action element with the per-type attribute
// layout. Vote and enacted elements rebuild their attributes from
// scratch so the datetime lands mid-sequence, exactly where the legacy
// schema declares it.
func (r *xmlRenderer) renderBillAction(actions *etree.Element, b *model.Bill, a *model.Action) {
	tag := "action"
	switch a.Type {
	case model.ActionVote, model.ActionVoteAux, model.ActionCalendar,
		model.ActionToPresident, model.ActionSigned, model.ActionEnacted, model.ActionVetoed:
		tag = string(a.Type)
	}

	e := r.makeNode(actions, tag, "", attr{"datetime", FormatDateTime(a.ActedAt)})
	if a.Status != "" {
		e.CreateAttr("state", a.Status)
	}

	switch a.Type {
	case model.ActionVote, model.ActionVoteAux:
		clearAttrs(e)
		e.CreateAttr("how", a.How)
		e.CreateAttr("type", a.VoteType)
		if a.Roll != nil {
			e.CreateAttr("roll", strconv.Itoa(*a.Roll))
		}
		e.CreateAttr("datetime", FormatDateTime(a.ActedAt))
		e.CreateAttr("where", a.Where)
		e.CreateAttr("result", string(a.Result))
		if a.Suspension {
			e.CreateAttr("suspension", "1")
		}
		if a.Status != "" {
			e.CreateAttr("state", a.Status)
		}
	case model.ActionCalendar:
		if a.Calendar != "" {
			e.CreateAttr("calendar", a.Calendar)
			if a.Under != "" {
				e.CreateAttr("under", a.Under)
			}
			if a.CalendarNumber != "" {
				e.CreateAttr("number", a.CalendarNumber)
			}
		}
	case model.ActionEnacted:
		clearAttrs(e)
		e.CreateAttr("number", fmt.Sprintf("%s-%s", b.Congress, a.LawNumber))
		e.CreateAttr("type", a.Law)
		e.CreateAttr("datetime", FormatDateTime(a.ActedAt))
		if a.Status != "" {
			e.CreateAttr("state", a.Status)
		}
	case model.ActionVetoed:
		if a.Pocket {
			e.CreateAttr("pocket", "1")
		}
	}

	r.renderActionChildren(e, a)
}

func (r *xmlRenderer) renderActionChildren(e *etree.Element, a *model.Action) {
	if a.Text != "" {
		r.makeNode(e, "text", a.Text)
	}
	if a.InCommittee != "" {
		r.makeNode(e, "committee", "", attr{"name", a.InCommittee})
	}
	for _, ref := range a.References {
		r.makeNode(e, "reference", "", attr{"ref", ref.Reference}, attr{"label", ref.Type})
	}
}

// AmendmentXML renders an amendment record as the legacy GovTrack XML
// document. Exactly one amends element is emitted, for the bill or
// treaty target; amended amendments are carried in the JSON projection
// only, matching the historical schema.
func AmendmentXML(a *model.Amendment, opts RenderOptions) ([]byte, error) {
	r := &xmlRenderer{opts: opts}

	doc := etree.NewDocument()
	root := doc.CreateElement("amendment")
	root.CreateAttr("session", a.Congress)
	root.CreateAttr("chamber", a.Chamber)
	root.CreateAttr("number", strconv.Itoa(a.Number))
	root.CreateAttr("updated", FormatDateTime(a.UpdatedAt))

	if a.AmendsBill != nil {
		sequence := ""
		if a.HouseNumber > 0 {
			sequence = strconv.Itoa(a.HouseNumber)
		}
		r.makeNode(root, "amends", "",
			attr{"type", govtrackTypeCodes[a.AmendsBill.BillType]},
			attr{"number", strconv.Itoa(a.AmendsBill.Number)},
			attr{"sequence", sequence})
	} else if a.AmendsTreaty != nil {
		r.makeNode(root, "amends", "",
			attr{"type", "treaty"},
			attr{"number", strconv.Itoa(a.AmendsTreaty.Number)})
	}

	r.makeNode(root, "status", string(a.Status), attr{"datetime", FormatDateTime(a.StatusAt)})

	switch {
	case a.Sponsor != nil && a.Sponsor.Type == model.SponsorPerson:
		r.makeNode(root, "sponsor", "", attr{"bioguide_id", a.Sponsor.BioguideID})
	case a.Sponsor != nil && a.Sponsor.Type == model.SponsorCommittee:
		r.makeNode(root, "sponsor", "", attr{"committee", a.Sponsor.Name})
	default:
		r.makeNode(root, "sponsor", "")
	}

	r.makeNode(root, "offered", "", attr{"datetime", FormatDateTime(a.IntroducedAt)})

	description := a.Description
	if description == "" {
		description = a.Purpose
	}
	r.makeNode(root, "description", description)
	if a.Description != "" {
		r.makeNode(root, "purpose", a.Purpose)
	}

	actions := r.makeNode(root, "actions", "")
	for _, act := range a.Actions {
		tag := "action"
		if act.Type == model.ActionVote {
			tag = "vote"
		}
		e := r.makeNode(actions, tag, "", attr{"datetime", FormatDateTime(act.ActedAt)})
		if act.Type == model.ActionVote {
			e.CreateAttr("how", act.How)
			e.CreateAttr("result", string(act.Result))
			if act.Roll != nil {
				e.CreateAttr("roll", strconv.Itoa(*act.Roll))
			}
		}
		r.renderActionChildren(e, act)
	}

	return serialize(doc)
}
