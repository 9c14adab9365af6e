package model

// ActionType identifies one kind of legislative event. The set is closed:
// the classifier only ever produces these values, and the XML renderer
// falls back to a generic "action" element for anything it does not have
// a dedicated layout for.
type ActionType string

const (
	ActionGeneric     ActionType = "action"
	ActionVote        ActionType = "vote"
	ActionVoteAux     ActionType = "vote-aux"
	ActionCalendar    ActionType = "calendar"
	ActionToPresident ActionType = "topresident"
	ActionSigned      ActionType = "signed"
	ActionEnacted     ActionType = "enacted"
	ActionVetoed      ActionType = "vetoed"
	ActionWithdrawn   ActionType = "withdrawn"
)

// VoteResult is the outcome of a classified vote action.
type VoteResult string

const (
	VotePass VoteResult = "pass"
	VoteFail VoteResult = "fail"
)

// Chamber is the chamber that performed an action. Empty means the action
// was not taken by either chamber (executive or administrative actions).
type Chamber string

const (
	ChamberHouse  Chamber = "house"
	ChamberSenate Chamber = "senate"
	ChamberNone   Chamber = ""
)

// Reference is a pointer into the Congressional Record attached to an
// action, e.g. {Reference: "CR H2051-2052", Type: "consideration"}.
type Reference struct {
	Reference string
	Type      string
}

// Action is the canonical, typed unit of legislative history. Actions are
// kept in source order; classification annotates but never reorders.
//
// The vote fields (Where, Result, How, Roll, VoteType, Suspension) are
// populated only for ActionVote/ActionVoteAux; the law fields (Law,
// LawNumber) only for ActionEnacted; the calendar fields only for
// ActionCalendar.
type Action struct {
	Type    ActionType
	ActedAt string // date or datetime, as given by the source
	Text    string // original description, retained for audit/display
	ActedBy Chamber

	InCommittee string
	References  []Reference

	// Status is the bill/amendment status snapshot as of this action,
	// attached by the status engine when the action changes it. Used by
	// the renderer, never by derivation itself.
	Status string

	// vote
	Where      string // "h" or "s"
	Result     VoteResult
	How        string // "roll", "voice", or the raw descriptive clause
	Roll       *int   // populated iff How == "roll"
	VoteType   string // "vote", "vote2", "override"
	Suspension bool

	// calendar
	Calendar       string
	Under          string
	CalendarNumber string

	// enactment
	Law       string // "public" or "private"
	LawNumber string

	// veto
	Pocket bool
}
