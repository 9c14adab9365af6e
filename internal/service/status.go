package service

import (
	"regexp"

	"github.com/erickpeirson/congress/internal/model"
)

// AmendmentStatus folds the ordered action sequence into the amendment's
// (status, status_at) pair.
//
// The fold has overwrite semantics: a later tracked action always
// replaces an earlier one, including a fail after a pass. The source
// data orders actions chronologically and assumes at most one
// dispositive vote per amendment; hardening the precedence is a change
// to this function alone.
func AmendmentStatus(actions []*model.Action, introducedAt string) model.StatusValue {
	sv := model.StatusValue{Status: model.AmdtStatusOffered, StatusAt: introducedAt}

	for _, a := range actions {
		switch a.Type {
		case model.ActionVote:
			sv.Status = model.Status(a.Result)
			sv.StatusAt = a.ActedAt
		case model.ActionWithdrawn:
			sv.Status = model.AmdtStatusWithdrawn
			sv.StatusAt = a.ActedAt
		}
	}

	return sv
}

// billStatusEffect is one row of the typed-action effect table.
type billStatusEffect struct {
	// next computes the resulting status; a zero return means no change.
	next func(a *model.Action) model.Status
	// supersedesEnacted marks effects allowed to replace a terminal
	// ENACTED status. No current effect does; the flag exists so that
	// changing the policy is a data edit, not a logic edit.
	supersedesEnacted bool
}

// billStatusEffects enumerates the effect of every typed action on a
// bill's status. Action types with no row (vote-aux, withdrawn handled
// below, generic actions) leave the status alone.
var billStatusEffects = map[model.ActionType]billStatusEffect{
	model.ActionVote: {next: func(a *model.Action) model.Status {
		if a.Result == model.VotePass {
			return model.StatusPassed
		}
		return model.StatusFailed
	}},
	model.ActionCalendar:    {next: func(*model.Action) model.Status { return model.StatusCalendar }},
	model.ActionToPresident: {next: func(*model.Action) model.Status { return model.StatusToPresident }},
	model.ActionSigned:      {next: func(*model.Action) model.Status { return model.StatusSigned }},
	model.ActionEnacted:     {next: func(*model.Action) model.Status { return model.StatusEnacted }},
	model.ActionVetoed:      {next: func(*model.Action) model.Status { return model.StatusVetoed }},
	model.ActionWithdrawn:   {next: func(*model.Action) model.Status { return model.StatusWithdrawn }},
}

// administrativeTransitions covers status changes that come from untyped
// administrative actions. Each row applies only while the bill is still
// in one of its listed prior states, so a late committee referral cannot
// roll back a passage.
var administrativeTransitions = []struct {
	re     *regexp.Regexp
	status model.Status
	from   []model.Status
}{
	{
		re:     regexp.MustCompile(`^Referred to `),
		status: model.StatusReferred,
		from:   []model.Status{model.StatusIntroduced, model.StatusReferred},
	},
	{
		re:     regexp.MustCompile(`^Reported (by|to|favorably|adversely|with)`),
		status: model.StatusReported,
		from:   []model.Status{model.StatusIntroduced, model.StatusReferred, model.StatusReported},
	},
}

// BillStatus folds the ordered action sequence into the bill's (status,
// status_at) pair, annotating each action that changed the status with
// the snapshot the renderer emits as its state attribute.
//
// ENACTED is terminal: once observed, only an effect explicitly marked
// supersedesEnacted may replace it.
func BillStatus(actions []*model.Action, introducedAt string) model.StatusValue {
	sv := model.StatusValue{Status: model.StatusIntroduced, StatusAt: introducedAt}

	for _, a := range actions {
		next, ok := billStatusFor(a, sv.Status)
		if !ok {
			continue
		}
		sv.Status = next
		sv.StatusAt = a.ActedAt
		a.Status = string(next)
	}

	return sv
}

func billStatusFor(a *model.Action, current model.Status) (model.Status, bool) {
	if a.Type == model.ActionGeneric {
		for _, t := range administrativeTransitions {
			if !t.re.MatchString(a.Text) {
				continue
			}
			for _, from := range t.from {
				if current == from {
					return t.status, true
				}
			}
			return "", false
		}
		return "", false
	}

	effect, ok := billStatusEffects[a.Type]
	if !ok {
		return "", false
	}
	if current == model.StatusEnacted && !effect.supersedesEnacted {
		return "", false
	}
	next := effect.next(a)
	if next == "" {
		return "", false
	}
	return next, true
}

// HistoryFromActions summarizes a bill's milestone outcomes: per-chamber
// passage results, veto, enactment, and whether the bill sits with the
// president awaiting signature.
func HistoryFromActions(actions []*model.Action) map[string]any {
	history := make(map[string]any)

	var toPresidentAt string
	var resolved bool // signed, enacted, or vetoed after presentment

	for _, a := range actions {
		switch a.Type {
		case model.ActionVote:
			if a.Where == "h" {
				history["house_passage_result"] = string(a.Result)
				history["house_passage_result_at"] = a.ActedAt
			} else {
				history["senate_passage_result"] = string(a.Result)
				history["senate_passage_result_at"] = a.ActedAt
			}
		case model.ActionToPresident:
			toPresidentAt = a.ActedAt
		case model.ActionSigned:
			resolved = true
		case model.ActionEnacted:
			resolved = true
			history["enacted"] = true
			history["enacted_at"] = a.ActedAt
		case model.ActionVetoed:
			resolved = true
			history["vetoed"] = true
			history["vetoed_at"] = a.ActedAt
		}
	}

	if toPresidentAt != "" && !resolved {
		history["awaiting_signature"] = true
		history["awaiting_signature_since"] = toPresidentAt
	} else {
		history["awaiting_signature"] = false
	}

	return history
}

// SlipLawFrom extracts the public/private law designation from the
// enactment action, if any.
func SlipLawFrom(actions []*model.Action, congress string) *model.SlipLaw {
	for i := len(actions) - 1; i >= 0; i-- {
		if actions[i].Type == model.ActionEnacted {
			return &model.SlipLaw{
				Congress: congress,
				LawType:  actions[i].Law,
				Number:   actions[i].LawNumber,
			}
		}
	}
	return nil
}
