package state

import "github.com/nayidisha/nayidisha-client/internal/client/models"

// ReportSubmit tracks the complaint form submission.
type ReportSubmit struct {
	Report  *models.Issue
	Success bool
	Status  Status
	Epochs  Epochs
}

func ReduceReportSubmit(s ReportSubmit, ev Event) ReportSubmit {
	switch ev.Action {
	case ActionResetReport:
		return ReportSubmit{Epochs: s.Epochs.fence(ev.Action)}
	case ActionSubmitReport:
	default:
		return s
	}
	epochs, ok := admit(s.Epochs, ev)
	if !ok {
		return s
	}
	s.Epochs = epochs

	switch ev.Outcome {
	case Pending:
		s.Status = loading()
		s.Success = false
	case Fulfilled:
		if is, ok := ev.Payload.(*models.Issue); ok && is != nil {
			cp := *is
			s.Report = &cp
		}
		s.Success = true
		s.Status = loaded()
	case Rejected:
		s.Success = false
		s.Status = failed(ev.Err, "Something went wrong")
	}
	return s
}

// MyComplaints is the signed-in user's own complaints and the one opened.
type MyComplaints struct {
	Complaints []models.Issue
	Selected   *models.Issue
	Status     Status
	Epochs     Epochs
}

func ReduceMyComplaints(s MyComplaints, ev Event) MyComplaints {
	switch ev.Action {
	case ActionResetComplaints:
		return MyComplaints{Epochs: s.Epochs.fence(ev.Action)}
	case ActionFetchMyComplaints, ActionViewReport:
	default:
		return s
	}
	epochs, ok := admit(s.Epochs, ev)
	if !ok {
		return s
	}
	s.Epochs = epochs

	switch ev.Outcome {
	case Pending:
		s.Status = loading()
	case Fulfilled:
		switch ev.Action {
		case ActionFetchMyComplaints:
			list, _ := ev.Payload.([]models.Issue)
			s.Complaints = orEmpty(list)
		case ActionViewReport:
			if is, ok := ev.Payload.(*models.Issue); ok && is != nil {
				cp := *is
				s.Selected = &cp
			}
		}
		s.Status = loaded()
	case Rejected:
		fallback := "Something went wrong"
		if ev.Action == ActionViewReport {
			fallback = "Failed to fetch complaint details"
		}
		s.Status = failed(ev.Err, fallback)
	}
	return s
}
