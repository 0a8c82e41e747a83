package state

import "github.com/nayidisha/nayidisha-client/internal/client/models"

// UserList is the admin user directory page.
type UserList struct {
	Users       []models.User
	Status      Status
	CurrentPage int
	TotalPages  int
	TotalUsers  int
	Epochs      Epochs
}

func ReduceUserList(s UserList, ev Event) UserList {
	switch ev.Action {
	case ActionResetUsers:
		return UserList{Epochs: s.Epochs.fence(ev.Action)}
	case ActionFetchUsers:
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
		page, ok := ev.Payload.(*models.Page[models.User])
		if !ok || page == nil {
			page = &models.Page[models.User]{}
		}
		s.Users = orEmpty(page.Content)
		s.CurrentPage = page.Number
		s.TotalPages = page.TotalPages
		s.TotalUsers = page.TotalElements
		s.Status = loaded()
	case Rejected:
		s.Status = failed(ev.Err, "Failed to fetch users")
	}
	return s
}
