package service

import (
	"regexp"
	"strings"

	"github.com/erickpeirson/congress/internal/bulkdata"
	"github.com/erickpeirson/congress/internal/model"
)

var trailingReferenceRe = regexp.MustCompile(`\s+\(([^)]+)\)\s*$`)

// ActionFor converts a raw bulk-data action item into a canonical action
// record with its base type. Classification happens afterwards; this
// step only attaches metadata the item carries directly.
func ActionFor(item *bulkdata.Node) *model.Action {
	a := &model.Action{Type: model.ActionGeneric}

	a.ActedAt = item.Str("actionDate")
	if t := item.Str("actionTime"); t != "" && a.ActedAt != "" {
		a.ActedAt = a.ActedAt + "T" + t
	}

	a.Text = item.Str("text")
	a.ActedBy = chamberFor(item.Str("sourceSystem", "name"))
	a.References = referencesFor(a.Text)

	// Bill actions carry a committees list, amendment actions a single
	// committee element; either way the first named committee is the
	// committee context.
	if c := item.First("committees", "item"); c != nil {
		a.InCommittee = c.Str("name")
	} else {
		a.InCommittee = item.Str("committee", "name")
	}

	return a
}

// chamberFor maps a bulk-data source system name onto the acting
// chamber. Non-chamber systems (e.g. the Library of Congress) yield no
// chamber.
func chamberFor(sourceSystem string) model.Chamber {
	switch {
	case strings.Contains(sourceSystem, "House"):
		return model.ChamberHouse
	case strings.Contains(sourceSystem, "Senate"):
		return model.ChamberSenate
	default:
		return model.ChamberNone
	}
}

// referencesFor extracts Congressional Record references from a trailing
// parenthetical, e.g. "(consideration: CR S2289-2293; text: CR S2290)".
// Entries without an explicit type default to "consideration". A
// parenthetical containing anything that is not a CR citation (roll
// numbers, vote tallies) yields no references.
func referencesFor(text string) []model.Reference {
	m := trailingReferenceRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	var refs []model.Reference
	for _, part := range strings.Split(m[1], ";") {
		part = strings.TrimSpace(part)
		refType, ref := "consideration", part
		if i := strings.Index(part, ": "); i >= 0 {
			refType, ref = part[:i], part[i+2:]
		}
		if !strings.HasPrefix(ref, "CR ") {
			return nil
		}
		refs = append(refs, model.Reference{Reference: ref, Type: refType})
	}
	return refs
}
