package model

// Status is a derived lifecycle state. Two vocabularies share the type:
// bill statuses are upper-case, amendment statuses lower-case, matching
// the historically published data.
type Status string

// Bill statuses.
const (
	StatusIntroduced  Status = "INTRODUCED"
	StatusReferred    Status = "REFERRED"
	StatusReported    Status = "REPORTED"
	StatusCalendar    Status = "CALENDAR"
	StatusPassed      Status = "PASSED"
	StatusFailed      Status = "FAILED"
	StatusToPresident Status = "TO_PRESIDENT"
	StatusSigned      Status = "SIGNED"
	StatusEnacted     Status = "ENACTED"
	StatusVetoed      Status = "VETOED"
	StatusWithdrawn   Status = "WITHDRAWN"
)

// Amendment statuses.
const (
	AmdtStatusOffered   Status = "offered"
	AmdtStatusPass      Status = "pass"
	AmdtStatusFail      Status = "fail"
	AmdtStatusWithdrawn Status = "withdrawn"
)

// StatusValue pairs a status with the date it took effect. Computed fresh
// on every run from the full action sequence, never persisted on its own.
type StatusValue struct {
	Status   Status
	StatusAt string
}
