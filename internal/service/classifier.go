package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/erickpeirson/congress/internal/model"
)

// grammar is one (pattern, extractor) pair in a classification table.
// Grammars in a table are evaluated independently and in order; a later
// grammar may override an earlier one's type and fields. An extractor
// that declines to annotate (the motion-to-table edge case) simply
// returns without touching the action.
type grammar struct {
	name  string
	re    *regexp.Regexp
	apply func(m []string, a *model.Action, origin model.Chamber)
}

// ClassifyAmendmentAction matches an amendment action's text against the
// amendment grammar table and annotates it in place. Unmatched text
// leaves the action at its base type.
func ClassifyAmendmentAction(a *model.Action) {
	classify(amendmentGrammars, a, model.ChamberNone)
}

// ClassifyBillAction matches a bill action's text against the bill
// grammar table. origin is the chamber the bill originated in; passage
// votes taken by the other chamber get vote type "vote2".
func ClassifyBillAction(a *model.Action, origin model.Chamber) {
	classify(billGrammars, a, origin)
}

func classify(grammars []grammar, a *model.Action, origin model.Chamber) {
	for _, g := range grammars {
		m := g.re.FindStringSubmatch(a.Text)
		if m == nil {
			continue
		}
		g.apply(m, a, origin)
	}
}

func setRoll(a *model.Action, number string) {
	roll, err := strconv.Atoi(number)
	if err != nil {
		return
	}
	a.How = "roll"
	a.Roll = &roll
}

// amendmentGrammars covers the three amendment action families: house
// floor votes on agreeing to an amendment, senate votes (including
// motions to table, whose outcome inverts), and senate withdrawals.
var amendmentGrammars = []grammar{
	{
		name: "house-vote",
		re:   regexp.MustCompile(`^On agreeing to the(?: .*)? amendments? (\(.*\) )?(?:as (?:modified|amended) )?(Agreed to|Failed) (without objection|by [^.:]+|by (?:recorded vote|the Yeas and Nays): (\d+) - (\d+)(, \d+ Present)? \(Roll [nN]o\. (\d+)\))\.`),
		apply: func(m []string, a *model.Action, _ model.Chamber) {
			a.Type = model.ActionVote
			a.VoteType = "vote"
			a.Where = "h"
			if m[2] == "Agreed to" {
				a.Result = model.VotePass
			} else {
				a.Result = model.VoteFail
			}
			a.How = m[3]
			if strings.Contains(m[3], "recorded vote") || strings.Contains(m[3], "the Yeas and Nays") {
				setRoll(a, m[7])
			}
		},
	},
	{
		name: "senate-vote",
		re:   regexp.MustCompile(`^(Motion to table )?[Aa]mendment SA \d+(?:, .*?)? (as modified )?(agreed to|not agreed to) in Senate by ([^.:\-]+|Yea-Nay( Vote)?\. (\d+) - (\d+)(, \d+ Present)?\. Record Vote Number: (\d+))\.`),
		apply: func(m []string, a *model.Action, _ model.Chamber) {
			motionToTable := m[1] != ""

			var result model.VoteResult
			if m[3] == "agreed to" {
				result = model.VotePass
				if motionToTable {
					// Tabling succeeded, so the amendment itself failed.
					result = model.VoteFail
				}
			} else {
				if motionToTable {
					// A failed motion to table is not a vote on agreeing
					// to the amendment; leave the action unclassified.
					return
				}
				result = model.VoteFail
			}

			a.Type = model.ActionVote
			a.VoteType = "vote"
			a.Where = "s"
			a.Result = result
			a.How = m[4]
			if strings.Contains(m[4], "Yea-Nay") {
				setRoll(a, m[9])
			}
		},
	},
	{
		name: "withdrawn",
		re:   regexp.MustCompile(`^Proposed amendment SA \d+ withdrawn in Senate`),
		apply: func(m []string, a *model.Action, _ model.Chamber) {
			a.Type = model.ActionWithdrawn
		},
	},
}

// passageVoteType distinguishes a passage vote in the originating
// chamber ("vote") from the other chamber's passage vote ("vote2").
func passageVoteType(where string, origin model.Chamber) string {
	voted := model.ChamberSenate
	if where == "h" {
		voted = model.ChamberHouse
	}
	if origin == model.ChamberNone || voted == origin {
		return "vote"
	}
	return "vote2"
}

// billGrammars covers the bill action families: passage votes (roll,
// voice, unanimous consent, suspension of the rules), veto-override
// votes, calendar placement, presentment, signing, enactment, and veto.
var billGrammars = []grammar{
	{
		name: "house-passage-roll",
		re:   regexp.MustCompile(`^On passage (Passed|Failed) by (?:the Yeas and Nays|recorded vote): (\d+) - (\d+)(, \d+ Present)? \(Roll [nN]o\. (\d+)\)\.`),
		apply: func(m []string, a *model.Action, origin model.Chamber) {
			a.Type = model.ActionVote
			a.VoteType = passageVoteType("h", origin)
			a.Where = "h"
			if m[1] == "Passed" {
				a.Result = model.VotePass
			} else {
				a.Result = model.VoteFail
			}
			setRoll(a, m[5])
		},
	},
	{
		name: "house-passage-voice",
		re:   regexp.MustCompile(`^On passage Passed (without objection|by voice vote)\.`),
		apply: func(m []string, a *model.Action, origin model.Chamber) {
			a.Type = model.ActionVote
			a.VoteType = passageVoteType("h", origin)
			a.Where = "h"
			a.Result = model.VotePass
			a.How = m[1]
		},
	},
	{
		name: "house-suspension",
		re:   regexp.MustCompile(`^On motion to suspend the rules and pass the bill(, as amended)? (Agreed to|Failed) by (?:the Yeas and Nays|recorded vote)(?:: \(2/3 required\))?: (\d+) - (\d+)(, \d+ Present)? \(Roll [nN]o\. (\d+)\)\.`),
		apply: func(m []string, a *model.Action, origin model.Chamber) {
			a.Type = model.ActionVote
			a.VoteType = passageVoteType("h", origin)
			a.Where = "h"
			a.Suspension = true
			if m[2] == "Agreed to" {
				a.Result = model.VotePass
			} else {
				a.Result = model.VoteFail
			}
			setRoll(a, m[6])
		},
	},
	{
		name: "senate-passage",
		re:   regexp.MustCompile(`^Passed Senate(?:,? (?:with amendments?|with an amendment|without amendment|in lieu of [A-Za-z0-9. ]+))? by (Unanimous Consent|Voice Vote|Yea-Nay( Vote)?\. (\d+) - (\d+)(, \d+ Present)?\. Record Vote Number: (\d+))\.`),
		apply: func(m []string, a *model.Action, origin model.Chamber) {
			a.Type = model.ActionVote
			a.VoteType = passageVoteType("s", origin)
			a.Where = "s"
			a.Result = model.VotePass
			a.How = m[1]
			if strings.Contains(m[1], "Yea-Nay") {
				setRoll(a, m[6])
			}
		},
	},
	{
		name: "senate-passage-failed",
		re:   regexp.MustCompile(`^Failed of passage in Senate by Yea-Nay Vote\. (\d+) - (\d+)(, \d+ Present)?\. Record Vote Number: (\d+)\.`),
		apply: func(m []string, a *model.Action, origin model.Chamber) {
			a.Type = model.ActionVote
			a.VoteType = passageVoteType("s", origin)
			a.Where = "s"
			a.Result = model.VoteFail
			setRoll(a, m[4])
		},
	},
	{
		name: "house-override",
		re:   regexp.MustCompile(`^On passage, the objections of the President to the contrary notwithstanding (Agreed to|Failed) by (?:the Yeas and Nays|recorded vote): \(2/3 required\): (\d+) - (\d+)(, \d+ Present)? \(Roll [nN]o\. (\d+)\)\.`),
		apply: func(m []string, a *model.Action, _ model.Chamber) {
			a.Type = model.ActionVoteAux
			a.VoteType = "override"
			a.Where = "h"
			if m[1] == "Agreed to" {
				a.Result = model.VotePass
			} else {
				a.Result = model.VoteFail
			}
			setRoll(a, m[5])
		},
	},
	{
		name: "senate-override",
		re:   regexp.MustCompile(`^(Passed|Failed) Senate over veto by Yea-Nay Vote\. (\d+) - (\d+)\.(?: \d/\d required\.)? Record Vote Number: (\d+)\.`),
		apply: func(m []string, a *model.Action, _ model.Chamber) {
			a.Type = model.ActionVoteAux
			a.VoteType = "override"
			a.Where = "s"
			if m[1] == "Passed" {
				a.Result = model.VotePass
			} else {
				a.Result = model.VoteFail
			}
			setRoll(a, m[4])
		},
	},
	{
		name: "house-calendar",
		re:   regexp.MustCompile(`^Placed on the ([A-Za-z ]+) Calendar(?:, Calendar No\.? (\d+))?\.`),
		apply: func(m []string, a *model.Action, _ model.Chamber) {
			a.Type = model.ActionCalendar
			a.Calendar = m[1]
			a.CalendarNumber = m[2]
		},
	},
	{
		name: "senate-calendar",
		re:   regexp.MustCompile(`^Placed on Senate Legislative Calendar under ([A-Za-z ]+)\.(?: Calendar No\.? (\d+)\.)?`),
		apply: func(m []string, a *model.Action, _ model.Chamber) {
			a.Type = model.ActionCalendar
			a.Calendar = "Senate Legislative"
			a.Under = m[1]
			a.CalendarNumber = m[2]
		},
	},
	{
		name: "to-president",
		re:   regexp.MustCompile(`^(Cleared for White House|Presented to President)\.?`),
		apply: func(m []string, a *model.Action, _ model.Chamber) {
			a.Type = model.ActionToPresident
		},
	},
	{
		name: "signed",
		re:   regexp.MustCompile(`^Signed by President\.?`),
		apply: func(m []string, a *model.Action, _ model.Chamber) {
			a.Type = model.ActionSigned
		},
	},
	{
		name: "enacted",
		re:   regexp.MustCompile(`^Became (Public|Private) Law No: (\d+)-(\d+)\.?`),
		apply: func(m []string, a *model.Action, _ model.Chamber) {
			a.Type = model.ActionEnacted
			a.Law = strings.ToLower(m[1])
			a.LawNumber = m[3]
		},
	},
	{
		name: "vetoed",
		re:   regexp.MustCompile(`^(Pocket )?Vetoed by (the )?President`),
		apply: func(m []string, a *model.Action, _ model.Chamber) {
			a.Type = model.ActionVetoed
			a.Pocket = m[1] != ""
		},
	},
}
