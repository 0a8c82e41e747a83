package models

// Page is the backend pagination envelope. Number is zero-based.
type Page[T any] struct {
	Content       []T `json:"content"`
	Number        int `json:"number"`
	TotalPages    int `json:"totalPages"`
	TotalElements int `json:"totalElements"`
}

// IssueQuery selects a page of the admin issue listing. Empty Search and
// Status are omitted from the request.
type IssueQuery struct {
	Page   int
	Size   int
	SortBy string
	Search string
	Status IssueStatus
}

type UserQuery struct {
	Page   int
	Size   int
	SortBy string
}
