package state

import "github.com/nayidisha/nayidisha-client/internal/client/models"

// ProfileState backs both the admin and the user profile; the action it
// listens to is fixed at reduce time.
type ProfileState struct {
	Profile *models.Profile
	Status  Status
	Epochs  Epochs
}

func reduceProfile(s ProfileState, ev Event, action Action, fallback string) ProfileState {
	if ev.Action != action {
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
		if p, ok := ev.Payload.(*models.Profile); ok && p != nil {
			cp := *p
			s.Profile = &cp
		}
		s.Status = loaded()
	case Rejected:
		s.Status = failed(ev.Err, fallback)
	}
	return s
}

func ReduceAdminProfile(s ProfileState, ev Event) ProfileState {
	return reduceProfile(s, ev, ActionFetchAdminProf, "Failed to fetch profile")
}

func ReduceUserProfile(s ProfileState, ev Event) ProfileState {
	return reduceProfile(s, ev, ActionFetchUserProfile, "Unknown error")
}

// ProfileUpdate is the outcome of the last profile submission.
type ProfileUpdate struct {
	User    *models.Profile
	Success bool
	Status  Status
	Epochs  Epochs
}

func ReduceProfileUpdate(s ProfileUpdate, ev Event) ProfileUpdate {
	if ev.Action != ActionUpdateProfile {
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
		if p, ok := ev.Payload.(*models.Profile); ok && p != nil {
			cp := *p
			s.User = &cp
		}
		s.Success = true
		s.Status = loaded()
	case Rejected:
		s.Success = false
		s.Status = failed(ev.Err, "Unknown error")
	}
	return s
}
