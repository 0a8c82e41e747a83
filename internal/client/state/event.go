package state

import (
	"errors"
	"maps"

	"github.com/nayidisha/nayidisha-client/internal/client/client"
)

// Phase is the load state of a slice.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

type Outcome int

const (
	Pending Outcome = iota + 1
	Fulfilled
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

type Action string

const (
	ActionFetchIssues       Action = "issues/fetchAllIssues"
	ActionViewIssue         Action = "issues/viewComplain"
	ActionUpdateIssueStatus Action = "issues/updateIssueStatus"
	ActionDeleteIssue       Action = "issues/deleteIssue"
	ActionResetIssues       Action = "issues/resetIssues"

	ActionFetchUsers     Action = "users/fetchAllUsers"
	ActionResetUsers     Action = "users/resetUserList"
	ActionFetchAdminProf Action = "admin/fetchProfile"

	ActionFetchUserProfile  Action = "profile/fetchProfile"
	ActionUpdateProfile     Action = "profile/updateProfile"
	ActionSubmitReport      Action = "report/submitReport"
	ActionResetReport       Action = "report/resetIssueState"
	ActionFetchMyComplaints Action = "complaints/fetchComplaint"
	ActionViewReport        Action = "complaints/viewReportIssue"
	ActionResetComplaints   Action = "complaints/resetComplainState"
)

// Event is one observable step of an async action. Payload is set on
// Fulfilled, Err on Rejected. Reset actions ignore Outcome.
type Event struct {
	Action  Action
	Outcome Outcome
	Epoch   uint64
	Payload any
	Err     error
}

// Status is the loading/error pair every slice carries. Cause keeps the
// rejected error for callers that branch on its kind.
type Status struct {
	Phase Phase
	Err   string
	Cause error
}

func (s Status) Loading() bool {
	return s.Phase == PhaseLoading
}

func loading() Status {
	return Status{Phase: PhaseLoading}
}

func loaded() Status {
	return Status{Phase: PhaseLoaded}
}

func failed(err error, fallback string) Status {
	return Status{Phase: PhaseFailed, Err: Message(err, fallback), Cause: err}
}

// Message is the user-facing text of err, or fallback when err carries none.
func Message(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// resetScope lists the actions whose in-flight responses a reset discards.
var resetScope = map[Action][]Action{
	ActionResetIssues:     {ActionFetchIssues, ActionViewIssue, ActionUpdateIssueStatus, ActionDeleteIssue},
	ActionResetUsers:      {ActionFetchUsers},
	ActionResetReport:     {ActionSubmitReport},
	ActionResetComplaints: {ActionFetchMyComplaints, ActionViewReport},
}

// Epochs records the latest issued epoch per action. It only ever grows.
type Epochs map[Action]uint64

func (e Epochs) issue(a Action, epoch uint64) Epochs {
	next := maps.Clone(e)
	if next == nil {
		next = Epochs{}
	}
	if epoch > next[a] {
		next[a] = epoch
	}
	return next
}

// fence moves every action of reset past its latest epoch, so responses
// still in flight are discarded. The store skips the same epoch.
func (e Epochs) fence(reset Action) Epochs {
	next := maps.Clone(e)
	for _, a := range resetScope[reset] {
		if latest, ok := next[a]; ok {
			next[a] = latest + 1
		}
	}
	return next
}

// stale reports whether ev answers a request older than the latest one.
func (e Epochs) stale(ev Event) bool {
	latest, ok := e[ev.Action]
	return ok && ev.Epoch != latest
}

// admit records pending epochs and reports whether ev should be applied.
// A Pending older than the latest recorded one is dropped.
func admit(e Epochs, ev Event) (Epochs, bool) {
	if ev.Outcome == Pending {
		if latest, ok := e[ev.Action]; ok && ev.Epoch <= latest {
			return e, false
		}
		return e.issue(ev.Action, ev.Epoch), true
	}
	return e, !e.stale(ev)
}
