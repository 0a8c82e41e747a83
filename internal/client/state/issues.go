package state

import (
	"slices"

	"github.com/nayidisha/nayidisha-client/internal/client/models"
)

// IssueList is the admin complaint listing plus the detail being viewed.
// Selected survives list re-fetches.
type IssueList struct {
	Issues       []models.Issue
	Selected     *models.Issue
	Status       Status
	CurrentPage  int
	TotalPages   int
	TotalIssues  int
	StatusUpdate Status
	Epochs       Epochs
}

func ReduceIssueList(s IssueList, ev Event) IssueList {
	switch ev.Action {
	case ActionResetIssues:
		return IssueList{Epochs: s.Epochs.fence(ev.Action)}
	case ActionFetchIssues, ActionViewIssue, ActionUpdateIssueStatus, ActionDeleteIssue:
	default:
		return s
	}

	epochs, ok := admit(s.Epochs, ev)
	if !ok {
		return s
	}
	s.Epochs = epochs

	switch ev.Action {
	case ActionFetchIssues:
		switch ev.Outcome {
		case Pending:
			s.Status = loading()
		case Fulfilled:
			page, ok := ev.Payload.(*models.Page[models.Issue])
			if !ok || page == nil {
				page = &models.Page[models.Issue]{}
			}
			s.Issues = orEmpty(page.Content)
			s.CurrentPage = page.Number
			s.TotalPages = page.TotalPages
			s.TotalIssues = page.TotalElements
			s.Status = loaded()
		case Rejected:
			s.Status = failed(ev.Err, "Failed to fetch issues")
		}

	case ActionViewIssue:
		switch ev.Outcome {
		case Pending:
			s.Status = loading()
		case Fulfilled:
			if issue, ok := ev.Payload.(*models.Issue); ok && issue != nil {
				cp := *issue
				s.Selected = &cp
			}
			s.Status = loaded()
		case Rejected:
			s.Status = failed(ev.Err, "Failed to fetch issue details")
		}

	case ActionUpdateIssueStatus:
		switch ev.Outcome {
		case Pending:
			s.StatusUpdate = loading()
		case Fulfilled:
			s.StatusUpdate = loaded()
			updated, ok := ev.Payload.(*models.Issue)
			if !ok || updated == nil {
				break
			}
			s.Issues = replaceByID(s.Issues, *updated)
			if s.Selected != nil && s.Selected.ID == updated.ID {
				cp := *updated
				s.Selected = &cp
			}
		case Rejected:
			s.StatusUpdate = failed(ev.Err, "Failed to update status")
		}

	case ActionDeleteIssue:
		switch ev.Outcome {
		case Fulfilled:
			ack, ok := ev.Payload.(*models.DeleteAck)
			if !ok || ack == nil {
				break
			}
			s.Issues = slices.DeleteFunc(slices.Clone(s.Issues), func(is models.Issue) bool {
				return is.ID == ack.ID
			})
			if s.Selected != nil && s.Selected.ID == ack.ID {
				s.Selected = nil
			}
		case Rejected:
			s.StatusUpdate = failed(ev.Err, "Failed to delete issue")
		}
	}
	return s
}

func replaceByID(issues []models.Issue, updated models.Issue) []models.Issue {
	idx := slices.IndexFunc(issues, func(is models.Issue) bool { return is.ID == updated.ID })
	if idx < 0 {
		return issues
	}
	out := slices.Clone(issues)
	out[idx] = updated
	return out
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
